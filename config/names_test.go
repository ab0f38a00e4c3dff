package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"scene 1.swf", "scene 1.swf"},
		{"a/b.swf", "ab.swf"},
		{"..hidden", "hidden"},
		{"tab\tname", "tabname"},
		{"", badNameReplacement},
		{"/..", badNameReplacement},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
