// Package service renders placeholder card images.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// MaxDimension caps both sides of a placeholder.
const MaxDimension = 4000

var (
	ErrMissingDimensions = errors.New("width and height required")
	ErrInvalidDimensions = errors.New("invalid dimensions")
)

const (
	background = "#f3f4f6"
	foreground = "#9ca3af"
	fontSize   = 14
)

// ParseDimensions validates the width and height path segments. Each is read up to its first
// non-digit, so "200px" is 200.
func ParseDimensions(width, height string) (int, int, error) {
	width, height = strings.TrimSpace(width), strings.TrimSpace(height)
	if width == "" || height == "" {
		return 0, 0, ErrMissingDimensions
	}
	w, err1 := leadingInt(width)
	h, err2 := leadingInt(height)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return 0, 0, ErrInvalidDimensions
	}
	return w, h, nil
}

func leadingInt(s string) (int, error) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return strconv.Atoi(s[:end])
}

func label(w, h int) string {
	return fmt.Sprintf("%d × %d", w, h)
}

// SVG returns the vector placeholder.
func SVG(w, h int) []byte {
	return []byte(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="100%%" height="100%%" fill="%s"/>`+
		`<text x="50%%" y="50%%" text-anchor="middle" dy=".3em" font-family="Arial, sans-serif" font-size="%d" fill="%s">%s</text>`+
		`</svg>`, w, h, background, fontSize, foreground, label(w, h)))
}

var (
	faceOnce sync.Once
	face     font.Face
)

func labelFace() font.Face {
	faceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		face = truetype.NewFace(f, &truetype.Options{Size: fontSize, DPI: 72, Hinting: font.HintingNone})
	})
	return face
}

func draw(w, h int) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetHexColor(background)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	if f := labelFace(); f != nil {
		dc.SetFontFace(f)
	}
	dc.SetHexColor(foreground)
	dc.DrawStringAnchored(label(w, h), float64(w)/2, float64(h)/2, 0.5, 0.5)
	return dc
}

// PNG rasterizes the placeholder.
func PNG(w, h int) ([]byte, error) {
	var buf bytes.Buffer
	if err := draw(w, h).EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WebP rasterizes the placeholder and encodes it lossy at quality 80.
func WebP(w, h int) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, draw(w, h).Image(), &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
