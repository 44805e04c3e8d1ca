package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

/* =======================================================================
   Card image pipeline: jpeg/png/webp -> downscaled WebP
   gif and svg pass through untouched
======================================================================= */

type WebPOptions struct {
	MaxW     int     // keep-aspect bound
	MaxH     int
	Quality  float32 // lossy quality
	TargetKB int     // 0 = single pass at Quality
	MinQ     float32
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{MaxW: 1600, MaxH: 1600, Quality: 80, MinQ: 45}
}

// convertible reports whether PrepareCardImage re-encodes this type.
func convertible(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

// PrepareCardImage returns the bytes, filename and content type to store.
// Unconvertible or undecodable input is returned as-is.
func PrepareCardImage(data []byte, filename, contentType string, opt WebPOptions) ([]byte, string, string) {
	if !convertible(contentType) {
		return data, filename, contentType
	}
	img, err := decodeImage(data, filename)
	if err != nil {
		return data, filename, contentType
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	out, err := encodeToWebP(img, opt)
	if err != nil {
		return data, filename, contentType
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	if base == "" {
		base = "image"
	}
	return out, base + ".webp", "image/webp"
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)
	if strings.Contains(ct, "webp") || strings.EqualFold(filepath.Ext(filename), ".webp") {
		return webp.Decode(bytes.NewReader(all))
	}
	img, _, err := image.Decode(bytes.NewReader(all))
	if err != nil {
		return nil, fmt.Errorf("unsupported image %s: %w", ct, err)
	}
	return img, nil
}

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	if (maxW <= 0 || b.Dx() <= maxW) && (maxH <= 0 || b.Dy() <= maxH) {
		return src
	}
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	return imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
}

// encodeToWebP encodes once at Quality, or walks quality down until the
// output fits TargetKB.
func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	encode := func(q float32) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	out, err := encode(q)
	if err != nil || opt.TargetKB <= 0 {
		return out, err
	}
	minQ := opt.MinQ
	if minQ <= 0 {
		minQ = 45
	}
	for len(out) > opt.TargetKB*1024 && q > minQ {
		q -= 10
		if q < minQ {
			q = minQ
		}
		if out, err = encode(q); err != nil {
			return nil, err
		}
	}
	return out, nil
}
