package validator

import "testing"

func TestIsSupported_AcceptedShapes(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"canonical video link", "https://www.tiktok.com/@alice/video/1234567890"},
		{"canonical without www", "https://tiktok.com/@alice/video/1234567890"},
		{"vm short link", "https://vm.tiktok.com/ABC123"},
		{"vt short link", "https://vt.tiktok.com/ABC123"},
		{"mobile link", "https://m.tiktok.com/v/1234567890"},
		{"generic short path", "https://www.tiktok.com/t/ABC123"},
		{"http scheme", "http://vm.tiktok.com/ABC123"},
		{"username with dots", "https://www.tiktok.com/@alice.b_c/video/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsSupported(tt.url) {
				t.Errorf("Expected %q to be supported", tt.url)
			}
		})
	}
}

func TestIsSupported_RejectedInputs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty string", ""},
		{"plain text", "hello world"},
		{"other platform", "https://www.youtube.com/watch?v=abc123"},
		{"tiktok homepage", "https://www.tiktok.com/"},
		{"profile without video", "https://www.tiktok.com/@alice"},
		{"lookalike domain", "https://vm.tiktok.com.evil.example/ABC123"},
		{"missing scheme", "www.tiktok.com/@alice/video/42"},
		{"ftp scheme", "ftp://vm.tiktok.com/ABC123"},
		{"non-numeric video id", "https://m.tiktok.com/v/notanumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsSupported(tt.url) {
				t.Errorf("Expected %q to be rejected", tt.url)
			}
		})
	}
}
