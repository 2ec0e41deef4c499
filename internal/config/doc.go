// Package config provides configuration structures and utilities for
// TeleSpotter. It defines the options for search sessions, source
// clients, the HTTP server, and report generation.
package config
