package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", c.AppPort)
	}
	if c.EditorialMaxPosts != 30 {
		t.Errorf("EditorialMaxPosts = %d, want 30", c.EditorialMaxPosts)
	}
	if c.EditorialIntervalDays != 1 {
		t.Errorf("EditorialIntervalDays = %d, want 1", c.EditorialIntervalDays)
	}
	if c.EditorialEpochDate != "2025-01-01" {
		t.Errorf("EditorialEpochDate = %q, want 2025-01-01", c.EditorialEpochDate)
	}
	if c.RateLimitPerMinute != 60 {
		t.Errorf("RateLimitPerMinute = %d, want 60", c.RateLimitPerMinute)
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", c.AllowedOrigins)
	}
}

func TestEditorialEpochParses(t *testing.T) {
	c := AppConfig{EditorialEpochDate: "2025-01-01"}
	got := c.EditorialEpoch()
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EditorialEpoch = %v, want %v", got, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("TESTING_MODE", "true")
	t.Setenv("EDITORIAL_MAX_POSTS", "12")
	t.Setenv("EDITORIAL_EPOCH_DATE", "2024-06-15")
	t.Setenv("EDITORIAL_PRIMARY_WORKER", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	var c AppConfig
	applyDefaults(&c)
	c.EditorialPrimaryWorker = true
	applyEnvOverrides(&c)

	if c.AppPort != "9999" {
		t.Errorf("AppPort = %q, want 9999", c.AppPort)
	}
	if !c.TestingMode {
		t.Error("TestingMode should be true")
	}
	if c.EditorialMaxPosts != 12 {
		t.Errorf("EditorialMaxPosts = %d, want 12", c.EditorialMaxPosts)
	}
	if c.EditorialEpochDate != "2024-06-15" {
		t.Errorf("EditorialEpochDate = %q, want 2024-06-15", c.EditorialEpochDate)
	}
	if c.EditorialPrimaryWorker {
		t.Error("EditorialPrimaryWorker should be false")
	}
	if len(c.AllowedOrigins) != 2 || c.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", c.AllowedOrigins)
	}
}

func TestLoadJSONConfigSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	payload := `{
		"app": {"AppPort": "7001", "ShopName": "Test Shop", "TestingMode": true},
		"editorial": {"MaxPosts": 10, "IntervalDays": 2, "EpochDate": "2023-03-03", "PrimaryWorker": false},
		"stripe": {"SecretKey": "sk_test_x", "PublicKey": "pk_test_x"},
		"ai": {"OpenAIAPIKey": "key", "AssistantPrompt": "be helpful"}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		t.Fatalf("loadJSONConfig: %v", err)
	}

	if c.AppPort != "7001" || c.ShopName != "Test Shop" || !c.TestingMode {
		t.Errorf("app section = %+v", c)
	}
	if c.EditorialMaxPosts != 10 || c.EditorialIntervalDays != 2 || c.EditorialEpochDate != "2023-03-03" {
		t.Errorf("editorial section = %+v", c)
	}
	if c.EditorialPrimaryWorker {
		t.Error("PrimaryWorker should be false when the file disables it")
	}
	if c.StripeSecretKey != "sk_test_x" || c.OpenAIAPIKey != "key" || c.AssistantPrompt != "be helpful" {
		t.Errorf("stripe/ai sections = %+v", c)
	}
}

func TestLoadJSONConfigMissingFileIsNoError(t *testing.T) {
	var c AppConfig
	if err := loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"), &c); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
}
