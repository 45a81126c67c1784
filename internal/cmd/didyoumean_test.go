package cmd

import "testing"

func TestClosest(t *testing.T) {
	commands := []string{"timeline", "status", "search", "lists", "trends"}

	tests := []struct {
		input string
		want  string
	}{
		{"timelin", "timeline"},
		{"stauts", "status"},
		{"SERCH", "search"},
		{"list", "lists"},
		{"xyzzyxyzzy", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := closest(tt.input, commands); got != tt.want {
			t.Errorf("closest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := closest("--reply-too", []string{"--reply-to", "--place"}); got != "--reply-to" {
		t.Errorf("flag suggestion = %q", got)
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"status", "status", 0},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
