package cli

import "testing"

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		multi  bool
		want   string
	}{
		{"default from input", "", "shots/kobe.jpg", "png", false, "shots/kobe_halftone.png"},
		{"default json", "", "kobe.jpeg", "json", false, "kobe_halftone.json"},
		{"explicit single", "poster.png", "kobe.jpg", "png", false, "poster.png"},
		{"explicit base multi", "poster", "kobe.jpg", "json", true, "poster.json"},
		{"explicit with ext multi", "poster.png", "kobe.jpg", "json", true, "poster.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, tt.input, tt.format, tt.multi)
			if got != tt.want {
				t.Errorf("outputPath(%q, %q, %q, %v) = %q, want %q",
					tt.output, tt.input, tt.format, tt.multi, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "png" {
		t.Errorf("empty should default to png, got %v", got)
	}
	got := parseFormats("png,json")
	if len(got) != 2 || got[0] != "png" || got[1] != "json" {
		t.Errorf("got %v", got)
	}
}
