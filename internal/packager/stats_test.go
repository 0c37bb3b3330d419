package packager

import (
	"testing"
	"time"
)

func TestHumanSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one_kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional_kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten_megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
		{name: "just_below_a_megabyte", bytes: 1024*1024 - 1, expected: "1024kb"},
		{name: "fractional_gigabyte", bytes: 3 * 1024 * 1024 * 1024 / 2, expected: "1.5gb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := humanSize(testCase.bytes); result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestLocalTimestamp(t *testing.T) {
	if result := localTimestamp(time.Time{}); result != "" {
		t.Fatalf("expected empty string for zero time, got %q", result)
	}
	moment := time.Date(2024, time.January, 2, 15, 4, 0, 0, time.Local)
	if result := localTimestamp(moment); result != "2024-01-02 15:04" {
		t.Fatalf("expected 2024-01-02 15:04, got %q", result)
	}
}

func TestCountLines(t *testing.T) {
	testCases := map[string]int{
		"":         0,
		"one":      1,
		"one\n":    1,
		"one\ntwo": 2,
		"\n\n":     2,
	}
	for text, expected := range testCases {
		if result := countLines(text); result != expected {
			t.Fatalf("countLines(%q): expected %d, got %d", text, expected, result)
		}
	}
}
