package config

import (
	"testing"
	"time"
)

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "production", Port: 8080},
		DB:       DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "hrms_audit", SSLMode: ""},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Session:  SessionConfig{Secret: "secret", Issuer: "hrms", Audience: "hrms-web"},
		Upstream: UpstreamConfig{AuthBaseURL: "http://auth", AttendanceBaseURL: "http://attendance"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := Config{
		App:      AppConfig{Env: "local", Port: 8080},
		DB:       DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "hrms_audit", SSLMode: ""},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Session:  SessionConfig{Secret: "secret"},
		Upstream: UpstreamConfig{AuthBaseURL: "http://auth", AttendanceBaseURL: "http://attendance"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Session.SessionTTL != 12*time.Hour {
		t.Fatalf("expected 12h session TTL default, got %v", c.Session.SessionTTL)
	}
	if c.Upstream.RequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s upstream timeout default, got %v", c.Upstream.RequestTimeout)
	}
}

func TestValidate_RequiresUpstreamURLs(t *testing.T) {
	c := Config{
		App:     AppConfig{Env: "local", Port: 8080},
		DB:      DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "hrms_audit"},
		Redis:   RedisConfig{Host: "localhost", Port: 6379},
		Session: SessionConfig{Secret: "secret"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing upstream URLs")
	}
}
