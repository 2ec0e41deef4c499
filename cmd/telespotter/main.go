// Package main provides the entry point for the TeleSpotter CLI.
//
// TeleSpotter is a phone number OSINT tool. It queries search engines
// and people-search sites for a phone number, extracts names, emails,
// addresses, and social profiles from the results, and correlates them
// across sources.
//
// Usage:
//
//	telespotter scan <phone-number>
//	telespotter serve
//
// See --help for all available options.
package main

// main is the entry point for TeleSpotter.
func main() {
	Execute()
}
