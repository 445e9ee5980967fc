package browser

import "testing"

func TestIsTrackerHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"google-analytics.com", true},
		{"www.GOOGLE-ANALYTICS.com", true},
		{"cdn.cookielaw.org", true},
		{"kitchen.planner.ikea.com", false},
		{"analytics.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTrackerHost(tt.host); got != tt.want {
			t.Errorf("isTrackerHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
