package tui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short ascii kept", "Space Warp", 20, "Space Warp"},
		{"long ascii cut", "A very long boot video title", 10, "A very lon…"},
		{"exact length kept", "abcde", 5, "abcde"},
		{"multibyte kept", "日本語", 5, "日本語"},
		{"multibyte cut on rune boundary", "日本語のタイトルです", 4, "日本語の…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int
		total     int
		wantStart int
		wantEnd   int
	}{
		{"fits entirely", 3, maxVisibleRows, 0, maxVisibleRows},
		{"cursor at top", 0, 50, 0, maxVisibleRows},
		{"cursor in middle", 25, 50, 25 - maxVisibleRows/2, 25 + maxVisibleRows/2},
		{"cursor at bottom", 49, 50, 50 - maxVisibleRows, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := window(tt.cursor, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("window(%d, %d) = (%d, %d), want (%d, %d)",
					tt.cursor, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
			if tt.cursor < start || tt.cursor >= end {
				t.Errorf("cursor %d outside visible window [%d, %d)", tt.cursor, start, end)
			}
		})
	}
}
