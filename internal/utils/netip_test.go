package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.5 ", "2001:db8::/32", "garbage", ""})

	tests := []struct {
		ip       string
		expected bool
	}{
		{ip: "10.20.30.40", expected: true},
		{ip: "192.168.1.5", expected: true},
		{ip: "::ffff:192.168.1.5", expected: true},
		{ip: "2001:db8::1", expected: true},
		{ip: "192.168.1.6", expected: false},
		{ip: "not-an-ip", expected: false},
		{ip: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := m.Allow(tt.ip); got != tt.expected {
				t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.expected)
			}
		})
	}

	if m.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if !NewIPMatcher([]string{"garbage"}).IsEmpty() {
		t.Error("IsEmpty() with only invalid entries = false, want true")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		trustProxy bool
		expected   string
	}{
		{name: "remote addr", expected: "203.0.113.7"},
		{name: "headers ignored without trust", headers: map[string]string{"X-Real-IP": "1.1.1.1"}, expected: "203.0.113.7"},
		{name: "cloudflare first", headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, trustProxy: true, expected: "1.1.1.1"},
		{name: "first forwarded", headers: map[string]string{"X-Forwarded-For": " 2.2.2.2 , 3.3.3.3"}, trustProxy: true, expected: "2.2.2.2"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "4.4.4.4:99"}, trustProxy: true, expected: "4.4.4.4"},
		{name: "no headers falls back", trustProxy: true, expected: "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = "203.0.113.7:5555"
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.expected {
				t.Errorf("ClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
