package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name:  "tabs and newlines",
			input: "hello\t\nworld",
			want:  "hello world",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Coaching™ ",
			want:  "Café & Coaching™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Jordan Rivera  ",
			want:  "Jordan Rivera",
		},
		{
			name:  "multiple spaces between words",
			input: "Jordan    Rivera",
			want:  "Jordan Rivera",
		},
		{
			name:  "hebrew characters",
			input: " יוסי כהן ",
			want:  "יוסי כהן",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple name",
			input: "Jordan Rivera",
			want:  "jordan-rivera",
		},
		{
			name:  "extra whitespace",
			input: "  Jordan   Rivera  ",
			want:  "jordan-rivera",
		},
		{
			name:  "underscores and hyphens collapse",
			input: "jordan__rivera--coaching",
			want:  "jordan-rivera-coaching",
		},
		{
			name:  "non-alphanumerics dropped",
			input: "Jordan's Coaching!",
			want:  "jordans-coaching",
		},
		{
			name:  "digits preserved",
			input: "Coach 24/7",
			want:  "coach-247",
		},
		{
			name:  "trailing separator trimmed",
			input: "Jordan Rivera - ",
			want:  "jordan-rivera",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
