package bot

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tsla", "TSLA"},
		{"  aapl  ", "AAPL"},
		{"TSLA", "TSLA"},
		{"tsla x", "TSLA"},
		{"msft 280 210", "MSFT"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := normalizeTicker(tt.in); got != tt.want {
			t.Errorf("normalizeTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
