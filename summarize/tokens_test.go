package summarize

import "testing"

func TestEstimate(t *testing.T) {
	est := NewEstimator(DefaultCharsPerToken)

	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{
			name:     "empty string",
			content:  "",
			expected: 0,
		},
		{
			name:     "short string",
			content:  "hi",
			expected: 1, // ceil(2 / 4) = 1
		},
		{
			name:     "4 chars",
			content:  "test",
			expected: 1, // ceil(4 / 4) = 1
		},
		{
			name:     "5 chars rounds up",
			content:  "tests",
			expected: 2, // ceil(5 / 4) = 2
		},
		{
			name:     "8 chars",
			content:  "12345678",
			expected: 2,
		},
		{
			name:     "longer text",
			content:  "This is a longer piece of text for testing token estimation.",
			expected: 16, // ceil(61 / 4) = 16
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.Estimate(tt.content)
			if got != tt.expected {
				t.Errorf("Estimate(%q) = %d, want %d", tt.content, got, tt.expected)
			}
		})
	}
}

func TestEstimateNonZero(t *testing.T) {
	// Any non-empty string costs at least 1 token, whitespace included.
	est := NewEstimator(DefaultCharsPerToken)

	testCases := []string{
		"a",
		"ab",
		"abc",
		"1",
		".",
		" ",
	}

	for _, tc := range testCases {
		got := est.Estimate(tc)
		if got < 1 {
			t.Errorf("Estimate(%q) = %d, expected at least 1", tc, got)
		}
	}
}

func TestEstimateCustomRate(t *testing.T) {
	est := NewEstimator(2)

	if got := est.Estimate("abcde"); got != 3 {
		t.Errorf("Estimate with 2 chars/token = %d, want 3", got)
	}
	if got := est.CharBudget(10); got != 20 {
		t.Errorf("CharBudget(10) = %d, want 20", got)
	}
	if got := est.CharsPerToken(); got != 2 {
		t.Errorf("CharsPerToken() = %d, want 2", got)
	}
}

func TestNewEstimatorClampsRate(t *testing.T) {
	// A non-positive rate falls back to the default.
	for _, rate := range []int{0, -3} {
		est := NewEstimator(rate)
		if got := est.CharsPerToken(); got != DefaultCharsPerToken {
			t.Errorf("NewEstimator(%d).CharsPerToken() = %d, want %d", rate, got, DefaultCharsPerToken)
		}
	}
}

func TestCharBudgetRoundTrip(t *testing.T) {
	// A string cut to CharBudget(n) chars never estimates above n.
	est := NewEstimator(DefaultCharsPerToken)

	for _, target := range []int{1, 3, 10, 25} {
		budget := est.CharBudget(target)
		text := make([]byte, budget)
		for i := range text {
			text[i] = 'x'
		}
		if got := est.Estimate(string(text)); got > target {
			t.Errorf("Estimate of %d-char text = %d, want <= %d", budget, got, target)
		}
	}
}
