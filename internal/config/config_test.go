package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("VELO_API_BASE", "")
	t.Setenv("VELO_LOGIN_PATH", "")
	t.Setenv("VELO_MEDIA_URL", "")
	t.Setenv("VELO_ALLOWED_ORIGINS", "")
	t.Setenv("PORT", "")

	cfg := FromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LoginPath != DefaultLoginPath {
		t.Errorf("LoginPath = %q, want %q", cfg.LoginPath, DefaultLoginPath)
	}
	if cfg.MediaURL != DefaultMediaURL {
		t.Errorf("MediaURL = %q, want %q", cfg.MediaURL, DefaultMediaURL)
	}
	if cfg.Standalone() {
		t.Error("Standalone() = true sans VELO_API_BASE")
	}
}

func TestFromEnvTrimsTrailingSlash(t *testing.T) {
	t.Setenv("VELO_API_BASE", "http://api.local/")

	cfg := FromEnv()

	if cfg.APIBase != "http://api.local" {
		t.Errorf("APIBase = %q, want sans slash final", cfg.APIBase)
	}
	if !cfg.Standalone() {
		t.Error("Standalone() = false avec une base API absolue")
	}
}

func TestFromEnvSplitsOrigins(t *testing.T) {
	t.Setenv("VELO_ALLOWED_ORIGINS", "http://a.local, http://b.local ,")

	cfg := FromEnv()

	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v, want deux origines", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "http://a.local" || cfg.AllowedOrigins[1] != "http://b.local" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
