package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults verifies the defaults used when nothing is configured.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Errorf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.JWTExpiration != 15*time.Minute {
		t.Errorf("expected JWT expiration 15m, got %v", cfg.JWTExpiration)
	}
	if cfg.SessionTTL != 168*time.Hour {
		t.Errorf("expected session TTL 168h, got %v", cfg.SessionTTL)
	}
	if cfg.UploadDir != "./uploads" {
		t.Errorf("expected upload dir ./uploads, got %q", cfg.UploadDir)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("expected upload cap 10 MiB, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ProcessorSchedule != "* * * * *" {
		t.Errorf("expected every-minute sweep, got %q", cfg.ProcessorSchedule)
	}
	if cfg.ClaimLimit != 10 {
		t.Errorf("expected claim limit 10, got %d", cfg.ClaimLimit)
	}
	if cfg.StaleAfter != 30*time.Minute {
		t.Errorf("expected stale cutoff 30m, got %v", cfg.StaleAfter)
	}
	if len(cfg.IndexCodes) != 3 || cfg.IndexCodes[0] != "SPX" {
		t.Errorf("expected default index codes SPX,NDX,DJI, got %v", cfg.IndexCodes)
	}
	if cfg.FeedCallsPerMinute != 8 {
		t.Errorf("expected feed quota 8, got %d", cfg.FeedCallsPerMinute)
	}
	if cfg.RefreshHourUTC != 6 {
		t.Errorf("expected refresh hour 6, got %d", cfg.RefreshHourUTC)
	}
}

// TestLoad_Overrides verifies environment variables win over defaults.
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.com,https://staging.example.com")
	t.Setenv("JWT_EXPIRATION", "5m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("INDEX_CODES", "FTSE")
	t.Setenv("REPORT_STALE_AFTER", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://ops.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.JWTExpiration != 5*time.Minute {
		t.Errorf("expected JWT expiration 5m, got %v", cfg.JWTExpiration)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected upload cap 1024, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.IndexCodes) != 1 || cfg.IndexCodes[0] != "FTSE" {
		t.Errorf("unexpected index codes %v", cfg.IndexCodes)
	}
	if cfg.StaleAfter != time.Hour {
		t.Errorf("expected stale cutoff 1h, got %v", cfg.StaleAfter)
	}
}

// TestLoad_InvalidDuration verifies a malformed duration surfaces as an error.
func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error, got nil")
	}
}
