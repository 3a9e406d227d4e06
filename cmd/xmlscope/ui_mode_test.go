package main

import "testing"

func TestParseProgressMode(t *testing.T) {
	cases := map[string]progressMode{"": progressAuto, " Auto ": progressAuto, "ON": progressOn, "off": progressOff}
	for in, want := range cases {
		got, err := parseProgressMode(in)
		if err != nil || got != want {
			t.Errorf("parseProgressMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseProgressMode("always"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestWantProgress(t *testing.T) {
	tty := progressRequest{mode: progressAuto, files: 5, tty: true}
	tests := []struct {
		name string
		req  progressRequest
		want bool
	}{
		{"auto on terminal", tty, true},
		{"auto without terminal", progressRequest{mode: progressAuto, files: 5}, false},
		{"auto quiet", progressRequest{mode: progressAuto, files: 5, tty: true, quiet: true}, false},
		{"auto json", progressRequest{mode: progressAuto, files: 5, tty: true, json: true}, false},
		{"auto single file", progressRequest{mode: progressAuto, files: 1, tty: true}, false},
		{"forced on without terminal", progressRequest{mode: progressOn, files: 1, json: true}, true},
		{"forced off", progressRequest{mode: progressOff, files: 5, tty: true}, false},
		{"no files", progressRequest{mode: progressOn}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wantProgress(tt.req); got != tt.want {
				t.Errorf("wantProgress(%+v) = %v, want %v", tt.req, got, tt.want)
			}
		})
	}
}
