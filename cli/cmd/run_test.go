package cmd

import (
	"errors"
	"testing"
)

func TestBindValues(t *testing.T) {
	values, err := bindValues([]string{
		"which=one",
		"title='Article'",
		"flag=true",
		"label=${'v' + rev}",
	})
	if err != nil {
		t.Fatalf("bindValues: %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		// Plain literals stay verbatim.
		{"which", "one"},
		// Quoted values and keywords are wrapped for evaluation.
		{"title", "${'Article'}"},
		{"flag", "${true}"},
		// Pre-embedded expressions pass through untouched.
		{"label", "${'v' + rev}"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := values[tt.key]; got != tt.want {
				t.Errorf("%s = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestBindValues_BadToken(t *testing.T) {
	for _, token := range []string{"noequals", "=novalue", "a=b=c"} {
		t.Run(token, func(t *testing.T) {
			_, err := bindValues([]string{token})
			if !errors.Is(err, ErrBindToken) {
				t.Errorf("error = %v, want ErrBindToken", err)
			}
		})
	}
}
