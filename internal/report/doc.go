// Package report renders crawl database summaries in several formats.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: Markdown tables and charts for sharing
//   - JSONWriter: Structured JSON output for tool integration
//
// Build assembles a Summary from the store's report queries; writers
// implement the Writer interface over it, so they can be used
// interchangeably and composed for multi-format output.
package report
