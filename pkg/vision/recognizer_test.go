package vision

import "testing"

func TestParseCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *int
	}{
		{"plain digits", "42", intPtr(42)},
		{"digits with noise", " 7\n", intPtr(7)},
		{"magazine format takes first run", "30/90", intPtr(30)},
		{"no digits", "---", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCount(tt.text)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("parseCount(%q) = %v, want %v", tt.text, got, tt.want)
			case *got != *tt.want:
				t.Errorf("parseCount(%q) = %d, want %d", tt.text, *got, *tt.want)
			}
		})
	}
}

func TestParseTimer(t *testing.T) {
	if got := parseTimer(" 2:45 \n"); got != "2:45" {
		t.Errorf("parseTimer = %q, want %q", got, "2:45")
	}
	if got := parseTimer("   "); got != "" {
		t.Errorf("parseTimer(blank) = %q, want empty", got)
	}
}

func intPtr(n int) *int { return &n }
