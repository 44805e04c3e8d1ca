package service

import (
	"errors"
	"testing"
)

func TestParseDimensions(t *testing.T) {
	cases := []struct {
		w, h   string
		wantW  int
		wantH  int
		wantEr error
	}{
		{"200", "100", 200, 100, nil},
		{"200px", "100px", 200, 100, nil},
		{" 64 ", "+32", 64, 32, nil},
		{"12.5", "7", 12, 7, nil},
		{"", "100", 0, 0, ErrMissingDimensions},
		{"abc", "200", 0, 0, ErrInvalidDimensions},
		{"px200", "200", 0, 0, ErrInvalidDimensions},
		{"0", "10", 0, 0, ErrInvalidDimensions},
		{"-5", "10", 0, 0, ErrInvalidDimensions},
		{"4001", "10", 0, 0, ErrInvalidDimensions},
	}
	for _, tc := range cases {
		w, h, err := ParseDimensions(tc.w, tc.h)
		if !errors.Is(err, tc.wantEr) || w != tc.wantW || h != tc.wantH {
			t.Fatalf("ParseDimensions(%q, %q) = %d, %d, %v", tc.w, tc.h, w, h, err)
		}
	}
}
