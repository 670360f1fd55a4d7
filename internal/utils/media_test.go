package utils

import "testing"

func TestNormalizeMediaURL(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   string
		want   string
	}{
		{"vide", "/media/", "", ""},
		{"absolue http", "/media/", "http://cdn.local/p.png", "http://cdn.local/p.png"},
		{"absolue https", "/media/", "https://cdn.local/p.png", "https://cdn.local/p.png"},
		{"déjà enracinée", "/media/", "/media/products/p.png", "/media/products/p.png"},
		{"media/ relatif", "/media/", "media/products/p.png", "/media/products/p.png"},
		{"nom nu", "/media/", "products/p.png", "/media/products/p.png"},
		{"préfixe sans slash final", "/media", "p.png", "/media/p.png"},
		{"préfixe vide", "", "p.png", "/media/p.png"},
		{"préfixe distant", "https://api.local/media/", "p.png", "https://api.local/media/p.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMediaURL(tt.prefix, tt.path); got != tt.want {
				t.Errorf("NormalizeMediaURL(%q, %q) = %q, want %q", tt.prefix, tt.path, got, tt.want)
			}
		})
	}
}
