package main

import (
	"testing"
	"time"

	"github.com/nao1215/telespotter/internal/config"
)

// TestNewServeCmd tests the serve command creation.
func TestNewServeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewServeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "serve" {
			t.Errorf("expected use 'serve', got %q", cmd.Use)
		}
	})

	t.Run("has address flag with default", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("address")
		if flag == nil {
			t.Fatal("expected address flag")
		}
		if flag.Shorthand != "a" {
			t.Errorf("expected shorthand 'a', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultListenAddress {
			t.Errorf("expected default %q, got %q", config.DefaultListenAddress, flag.DefValue)
		}
	})

	t.Run("has retention flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("retention")
		if flag == nil {
			t.Fatal("expected retention flag")
		}
		if flag.DefValue != config.DefaultRetention.String() {
			t.Errorf("expected default %q, got %q",
				config.DefaultRetention.String(), flag.DefValue)
		}
	})
}

// TestBuildServeConfig tests serve configuration building.
func TestBuildServeConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewServeCmd()
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ListenAddress != config.DefaultListenAddress {
			t.Errorf("ListenAddress = %q, want %q", cfg.ListenAddress, config.DefaultListenAddress)
		}
		if cfg.Retention != config.DefaultRetention {
			t.Errorf("Retention = %v, want %v", cfg.Retention, config.DefaultRetention)
		}
	})

	t.Run("builds config from flags", func(t *testing.T) {
		cmd := NewServeCmd()
		_ = cmd.Flags().Set("address", ":9000")
		_ = cmd.Flags().Set("retention", "5m")
		_ = cmd.Flags().Set("sources", "google")

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ListenAddress != ":9000" {
			t.Errorf("ListenAddress = %q, want %q", cfg.ListenAddress, ":9000")
		}
		if cfg.Retention != 5*time.Minute {
			t.Errorf("Retention = %v, want 5m", cfg.Retention)
		}
		if len(cfg.Sources) != 1 || cfg.Sources[0] != "google" {
			t.Errorf("Sources = %v, want [google]", cfg.Sources)
		}
	})
}
