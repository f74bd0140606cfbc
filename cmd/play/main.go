package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/heartlab/heartgame/internal/client"
	"github.com/heartlab/heartgame/internal/logging"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const answerDelay = 2 * time.Second

type app struct {
	api     *client.Client
	store   *client.Store
	auth    *client.Auth
	syncer  *client.Syncer
	poller  *client.Poller
	session client.Session

	in  *bufio.Scanner
	out *os.File

	// next delivers the delayed NextQuestionDue after an answer.
	next chan struct{}
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	logging.Setup()

	serverURL := os.Getenv("HEARTGAME_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, serverURL); err != nil && ctx.Err() == nil {
		slog.Error("game exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL string) error {
	api := client.New(serverURL)
	store := client.NewStore()

	a := &app{
		api:    api,
		store:  store,
		auth:   client.NewAuth(api, store),
		syncer: client.NewSyncer(api),
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
		next:   make(chan struct{}, 1),
	}

	interval := client.DefaultPollInterval
	if v, err := time.ParseDuration(os.Getenv("LEADERBOARD_POLL_INTERVAL")); err == nil && v > 0 {
		interval = v
	}
	a.poller = client.NewPoller(api.FetchLeaderboard, interval, nil)
	a.poller.Start(ctx)
	defer a.poller.Stop()

	// A finished score push means the board is stale; refresh it.
	a.syncer.OnComplete(a.poller.Kick)

	a.session = store.Load()
	if a.session.LoggedIn() {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", a.session.Username)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer a.syncer.Wait()

		for ctx.Err() == nil {
			if !a.session.LoggedIn() && !a.authLoop(ctx) {
				return nil
			}
			if quit := a.gameLoop(ctx); quit {
				return nil
			}
			// Logged out mid-game: back to the auth screen.
		}
		return nil
	})
	return g.Wait()
}

// authLoop runs until the player signs in or quits. Returns false on
// quit.
func (a *app) authLoop(ctx context.Context) bool {
	for ctx.Err() == nil {
		fmt.Fprintln(a.out, "\n[1] Sign in  [2] Sign up  [3] Play without an account  [q] Quit")
		choice, ok := a.prompt("> ")
		if !ok {
			return false
		}

		switch strings.TrimSpace(choice) {
		case "1":
			if a.signIn(ctx) {
				return true
			}
		case "2":
			a.signUp(ctx)
		case "3":
			fmt.Fprintln(a.out, "Playing as a guest; your score will not be saved.")
			return true
		case "q", "quit":
			return false
		}
	}
	return false
}

func (a *app) signIn(ctx context.Context) bool {
	username, ok := a.prompt("Username: ")
	if !ok {
		return false
	}
	password, ok := a.prompt("Password: ")
	if !ok {
		return false
	}

	session, err := a.auth.SignIn(ctx, username, password)
	if err != nil {
		fmt.Fprintln(a.out, client.FailureMessage(err, "Login failed. Please try again."))
		return false
	}

	a.session = session
	fmt.Fprintf(a.out, "Welcome, %s!\n", session.Username)
	return true
}

func (a *app) signUp(ctx context.Context) {
	username, ok := a.prompt("Username: ")
	if !ok {
		return
	}
	password, ok := a.prompt("Password: ")
	if !ok {
		return
	}
	confirm, ok := a.prompt("Confirm password: ")
	if !ok {
		return
	}

	if err := a.auth.SignUp(ctx, username, password, confirm); err != nil {
		fmt.Fprintln(a.out, client.FailureMessage(err, "Signup failed. Please try again."))
		return
	}

	// Registration done; the player signs in with the new account.
	fmt.Fprintln(a.out, "Account created! Please sign in.")
}

// gameLoop runs the quiz until the player quits (true) or signs out
// (false, back to the auth screen).
func (a *app) gameLoop(ctx context.Context) bool {
	state := client.QuizState{Phase: client.PhaseLoading}
	state = a.runEffects(ctx, state, []any{client.FetchQuestion{}})

	for ctx.Err() == nil {
		// A pending delayed transition beats new input.
		select {
		case <-a.next:
			var effects []any
			state, effects = client.Apply(state, client.NextQuestionDue{})
			state = a.runEffects(ctx, state, effects)
			continue
		default:
		}

		line, ok := a.prompt("Answer (or board/refresh/logout/quit): ")
		if !ok {
			return true
		}

		switch strings.TrimSpace(line) {
		case "board":
			snap := a.poller.Snapshot()
			if snap.Err != "" {
				fmt.Fprintln(a.out, snap.Err)
			}
			fmt.Fprint(a.out, client.FormatLeaderboard(snap.Entries, a.session.Username))
		case "refresh":
			a.poller.Kick()
			fmt.Fprintln(a.out, "Refreshing leaderboard...")
		case "logout":
			a.printFinalScore(state)
			if err := a.auth.SignOut(); err != nil {
				slog.Warn("failed to clear session", "error", err)
			}
			a.session = client.Session{}
			fmt.Fprintln(a.out, "Signed out.")
			return false
		case "quit", "q":
			a.printFinalScore(state)
			return true
		default:
			var effects []any
			state, effects = client.Apply(state, client.AnswerSubmitted{Answer: line})
			if state.Message != "" {
				fmt.Fprintln(a.out, state.Message)
			}
			state = a.runEffects(ctx, state, effects)
		}
	}
	return true
}

// runEffects executes transition effects and waits out any scheduled
// pause so the next question lands before more input is read.
func (a *app) runEffects(ctx context.Context, state client.QuizState, effects []any) client.QuizState {
	for _, effect := range effects {
		switch e := effect.(type) {
		case client.FetchQuestion:
			state = a.fetchQuestion(ctx, state)

		case client.PushScore:
			if a.session.LoggedIn() {
				a.syncer.Push(a.session.UserID, e.Score)
			} else {
				fmt.Fprintf(a.out, "Score: %d (not saved)\n", e.Score)
			}

		case client.ScheduleNext:
			select {
			case <-time.After(answerDelay):
				select {
				case a.next <- struct{}{}:
				default:
				}
			case <-ctx.Done():
			}
		}
	}
	return state
}

func (a *app) fetchQuestion(ctx context.Context, state client.QuizState) client.QuizState {
	fmt.Fprintln(a.out, "Loading question...")

	q, err := a.api.FetchQuestion(ctx)
	if err != nil {
		state, _ = client.Apply(state, client.QuestionFailed{})
		fmt.Fprintln(a.out, state.Message)
		fmt.Fprintln(a.out, "Type anything to retry, or quit.")
		line, ok := a.prompt("> ")
		if !ok || strings.TrimSpace(line) == "quit" || strings.TrimSpace(line) == "q" {
			return state
		}
		return a.fetchQuestion(ctx, state)
	}

	state, _ = client.Apply(state, client.QuestionLoaded{Question: q})

	if path, err := a.saveQuestionImage(q); err != nil {
		slog.Warn("failed to save question image", "error", err)
	} else {
		fmt.Fprintf(a.out, "Question image: %s\n", path)
	}
	fmt.Fprintf(a.out, "Score: %d\n", state.Score)
	return state
}

func (a *app) saveQuestionImage(q client.Question) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(q.ImageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode question image: %w", err)
	}

	dir := a.store.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(dir, "question.png")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("failed to write question image: %w", err)
	}
	return path, nil
}

func (a *app) printFinalScore(state client.QuizState) {
	if a.session.LoggedIn() {
		fmt.Fprintf(a.out, "Thanks for playing, %s! Final score: %d\n", a.session.Username, state.Score)
	} else {
		fmt.Fprintf(a.out, "Thanks for playing! Final score: %d (not saved)\n", state.Score)
	}
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}
