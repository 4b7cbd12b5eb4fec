package timekeeper

import "testing"

func TestMatchName(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "checkout-api", true},
		{"*", "checkout-api", true},
		{"checkout-api", "checkout-api", true},
		{"checkout-api", "checkout-db", false},
		{"checkout-*", "checkout-api", true},
		{"checkout-*", "checkout-db", true},
		{"checkout-*", "billing-api", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			if got := matchName(tt.pattern, tt.name); got != tt.want {
				t.Errorf("matchName(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
			}
		})
	}
}
