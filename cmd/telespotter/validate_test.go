package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewValidateCmd tests the validate command creation.
func TestNewValidateCmd(t *testing.T) {
	t.Parallel()

	cmd := NewValidateCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "validate [phone-number]" {
			t.Errorf("expected use 'validate [phone-number]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})
}

// TestRunValidateCmd tests the validate command execution.
func TestRunValidateCmd(t *testing.T) {
	t.Parallel()

	t.Run("describes a valid number", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewValidateCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"+1 (212) 555-0187"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "valid") {
			t.Error("expected valid marker in output")
		}
		if !strings.Contains(output, "+12125550187") {
			t.Error("expected E.164 form in output")
		}
		if !strings.Contains(output, "212") {
			t.Error("expected area code in output")
		}
		if !strings.Contains(output, "Variants:") {
			t.Error("expected format variants in output")
		}
	})

	t.Run("reports invalid numbers and fails", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewValidateCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"12"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for invalid number")
		}
		if !strings.Contains(buf.String(), "invalid") {
			t.Error("expected invalid marker in output")
		}
	})

	t.Run("mixes valid and invalid numbers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewValidateCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"555-123-4567", "12"})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error when any number is invalid")
		}
		if !strings.Contains(err.Error(), "1 of 2") {
			t.Errorf("expected invalid count in error, got %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "valid") {
			t.Error("expected the valid number to be described")
		}
	})

	t.Run("requires at least one argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewValidateCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing arguments")
		}
	})
}
