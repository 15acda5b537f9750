package config

import "testing"

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "")
	t.Setenv("DOCUMENT_DIR", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.AccessTokenTTLHours != 168 {
		t.Fatalf("expected default token TTL of 168 hours, got %d", cfg.AccessTokenTTLHours)
	}
	if cfg.CatalogCacheTTLSeconds != 60 {
		t.Fatalf("expected default catalog cache TTL of 60 seconds, got %d", cfg.CatalogCacheTTLSeconds)
	}
	if cfg.DocumentDir != "data/documents" {
		t.Fatalf("unexpected document dir %q", cfg.DocumentDir)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "-4")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "bogus")

	cfg := Load()
	if cfg.AccessTokenTTLHours != 168 {
		t.Fatalf("expected fallback token TTL, got %d", cfg.AccessTokenTTLHours)
	}
	if cfg.CatalogCacheTTLSeconds != 60 {
		t.Fatalf("expected fallback cache TTL, got %d", cfg.CatalogCacheTTLSeconds)
	}
}
