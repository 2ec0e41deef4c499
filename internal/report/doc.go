// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - CSVWriter: Flat entity rows for spreadsheets
//   - MarkdownWriter: GitHub Flavored Markdown for documentation
//
// Design decision: We separate report writing from the session data
// structures (which live in the model package) to follow the single
// responsibility principle. Writers implement the Writer interface,
// allowing them to be used interchangeably and composed for
// multi-format output.
package report
