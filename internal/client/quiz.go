package client

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase is where the quiz loop currently stands.
type Phase int

const (
	// PhaseLoading means a question fetch is in flight.
	PhaseLoading Phase = iota
	// PhaseReady means a question is on screen awaiting an answer.
	PhaseReady
	// PhaseCorrect briefly shows the success message before the next
	// question loads.
	PhaseCorrect
	// PhaseIncorrect briefly reveals the solution before the next
	// question loads.
	PhaseIncorrect
	// PhaseFailed means the question fetch failed and the player must
	// retry explicitly.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseCorrect:
		return "correct"
	case PhaseIncorrect:
		return "incorrect"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// QuizState is the complete state of one play session. It is a value:
// Apply returns a new state rather than mutating.
type QuizState struct {
	Phase    Phase
	Question Question
	Message  string
	Score    int
}

// Events feed the quiz state machine.

type QuestionLoaded struct {
	Question Question
}

type QuestionFailed struct{}

type AnswerSubmitted struct {
	Answer string
}

// NextQuestionDue fires after the post-answer pause.
type NextQuestionDue struct{}

// Effects are what the caller must do in response to a transition.
// Keeping them as data keeps Apply pure and testable.

type FetchQuestion struct{}

type PushScore struct {
	Score int
}

type ScheduleNext struct{}

// User-facing quiz messages.
const (
	msgEmptyAnswer   = "Please enter an answer!"
	msgNotReady      = "Please wait..."
	msgInvalidNumber = "Please enter a valid number"
	msgQuestionError = "Error loading question. Please try again."
	msgCorrect       = "Correct! Your score is %d"
	msgIncorrect     = "Incorrect! The correct answer is %d. Score: %d"
)

// Apply advances the quiz by one event and returns the effects the
// caller must run.
func Apply(state QuizState, event any) (QuizState, []any) {
	switch ev := event.(type) {
	case QuestionLoaded:
		state.Phase = PhaseReady
		state.Question = ev.Question
		state.Message = ""
		return state, nil

	case QuestionFailed:
		state.Phase = PhaseFailed
		state.Message = msgQuestionError
		return state, nil

	case AnswerSubmitted:
		return applyAnswer(state, ev.Answer)

	case NextQuestionDue:
		state.Phase = PhaseLoading
		state.Question = Question{}
		state.Message = ""
		return state, []any{FetchQuestion{}}

	default:
		return state, nil
	}
}

func applyAnswer(state QuizState, answer string) (QuizState, []any) {
	if state.Phase != PhaseReady {
		state.Message = msgNotReady
		return state, nil
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		state.Message = msgEmptyAnswer
		return state, nil
	}

	guess, err := strconv.Atoi(answer)
	if err != nil {
		// Not a number: no turn is consumed, the question stays up.
		state.Message = msgInvalidNumber
		return state, nil
	}

	if guess == state.Question.Solution {
		state.Phase = PhaseCorrect
		state.Score++
		state.Message = fmt.Sprintf(msgCorrect, state.Score)
		return state, []any{PushScore{Score: state.Score}, ScheduleNext{}}
	}

	state.Phase = PhaseIncorrect
	state.Message = fmt.Sprintf(msgIncorrect, state.Question.Solution, state.Score)
	return state, []any{ScheduleNext{}}
}
