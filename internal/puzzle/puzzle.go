package puzzle

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"math/rand/v2"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	imageWidth  = 420
	imageHeight = 160
	fontSize    = 64
	heartSlot   = 64.0
)

// Question is one arithmetic puzzle: the image shows an addition with one
// operand replaced by a heart, and Solution is the hidden digit.
type Question struct {
	ImageBase64 string
	Solution    int
}

// Generate renders a random puzzle. The hidden digit is always 0-9.
func Generate() (Question, error) {
	solution := rand.IntN(10)
	addend := rand.IntN(10)

	img, err := render(addend, solution+addend)
	if err != nil {
		return Question{}, fmt.Errorf("render puzzle: %w", err)
	}

	return Question{
		ImageBase64: base64.StdEncoding.EncodeToString(img),
		Solution:    solution,
	}, nil
}

// render draws "<heart> + addend = sum" as a PNG.
func render(addend, sum int) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(font, &truetype.Options{Size: fontSize})
	dc.SetFontFace(face)

	text := fmt.Sprintf(" + %d = %d", addend, sum)
	textWidth, _ := dc.MeasureString(text)

	startX := (imageWidth - (heartSlot + textWidth)) / 2
	centerY := float64(imageHeight) / 2

	drawHeart(dc, startX+heartSlot/2, centerY, heartSlot/2)

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawStringAnchored(text, startX+heartSlot, centerY, 0, 0.35)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeart fills a heart shape centered on (cx, cy) with half-width r.
func drawHeart(dc *gg.Context, cx, cy, r float64) {
	dc.SetRGB(0.85, 0.11, 0.25)

	lobe := r * 0.52
	lobeY := cy - r*0.3

	dc.DrawCircle(cx-lobe, lobeY, lobe)
	dc.Fill()
	dc.DrawCircle(cx+lobe, lobeY, lobe)
	dc.Fill()

	dc.MoveTo(cx-lobe*2, lobeY+lobe*0.18)
	dc.LineTo(cx, cy+r*0.95)
	dc.LineTo(cx+lobe*2, lobeY+lobe*0.18)
	dc.ClosePath()
	dc.Fill()
}
