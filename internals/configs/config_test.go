package configs

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("INSERT_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBucket != "files" {
		t.Fatalf("StorageBucket = %q, want files", cfg.StorageBucket)
	}
	if cfg.S3Endpoint != "https://abc.supabase.co/storage/v1/s3" {
		t.Fatalf("S3Endpoint = %q", cfg.S3Endpoint)
	}
	if cfg.InsertTimeout != 30*time.Second {
		t.Fatalf("InsertTimeout = %v", cfg.InsertTimeout)
	}
}

func TestGetEnvDuration(t *testing.T) {
	cases := []struct {
		val  string
		want time.Duration
	}{
		{"", time.Minute},
		{"10s", 10 * time.Second},
		{"45", 45 * time.Second},
		{"nonsense", time.Minute},
	}
	for _, tc := range cases {
		t.Setenv("BIOLAB_TEST_DURATION", tc.val)
		if got := GetEnvDuration("BIOLAB_TEST_DURATION", time.Minute); got != tc.want {
			t.Fatalf("GetEnvDuration(%q) = %v, want %v", tc.val, got, tc.want)
		}
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BIOLAB_TEST_BOOL", "yes")
	if !GetEnvBool("BIOLAB_TEST_BOOL", false) {
		t.Fatalf("yes should be true")
	}
	t.Setenv("BIOLAB_TEST_BOOL", "off")
	if GetEnvBool("BIOLAB_TEST_BOOL", true) {
		t.Fatalf("off should be false")
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{CORSOrigins: " http://a.kz , ,http://b.kz"}
	got := cfg.Origins()
	if len(got) != 2 || got[0] != "http://a.kz" || got[1] != "http://b.kz" {
		t.Fatalf("Origins() = %v", got)
	}
	if (Config{}).Origins() != nil {
		t.Fatalf("empty CORS_ORIGINS should give nil")
	}
}

func TestValidateDraftOutlivesRetention(t *testing.T) {
	cases := []struct {
		draft, retention time.Duration
		ok               bool
	}{
		{2 * time.Hour, 24 * time.Hour, true},
		{24 * time.Hour, 24 * time.Hour, false},
		{48 * time.Hour, 24 * time.Hour, false},
	}
	for _, tc := range cases {
		err := Config{DraftTTL: tc.draft, UploadRetention: tc.retention}.Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("draft=%v retention=%v: err=%v", tc.draft, tc.retention, err)
		}
	}

	t.Setenv("DRAFT_TTL", "")
	t.Setenv("UPLOAD_RETENTION", "")
	if err := Load().Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
}
