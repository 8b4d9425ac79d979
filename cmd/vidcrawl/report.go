package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vidcrawl/vidcrawl/internal/config"
	"github.com/vidcrawl/vidcrawl/internal/report"
	"github.com/vidcrawl/vidcrawl/internal/store"
)

// Report output format names.
const (
	formatSimple   = "simple"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// defaultReportLimit bounds the recent-video and top-tag lists.
const defaultReportLimit = 20

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the crawled video database",
		Long: `Report renders a digest of the crawl database: per-site video and tag
counts, the newest discoveries, and the most used tags.

Examples:
  # Print a text summary to the terminal
  vidcrawl report

  # Write a Markdown summary to a file
  vidcrawl report --format markdown --output report.md

  # JSON for further processing, 50 rows per section
  vidcrawl report --format json --limit 50`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().String("db", "",
		"Database DSN: SQLite file path or postgres:// URL (default: vidcrawl.db in XDG data directory)")
	cmd.Flags().StringP("format", "f", formatSimple,
		"Output format: simple, markdown, or json")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().IntP("limit", "l", defaultReportLimit,
		"Maximum rows in the recent-video and top-tag sections")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	dsn, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if dsn == "" {
		dsn = config.DefaultDatabasePath()
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = defaultReportLimit
	}

	ctx := context.Background()

	// Reporting never creates the database: a typo in --db should fail
	// instead of summarizing a fresh empty file.
	st, err := store.Open(ctx, dsn, store.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	summary, err := report.Build(ctx, st, limit)
	if err != nil {
		return err
	}

	output, closeOutput, err := openReportOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	defer closeOutput()

	writer, err := newReportWriter(output, format)
	if err != nil {
		return err
	}

	_, err = writer.Write(summary)
	return err
}

// openReportOutput returns the report destination: the given file, or
// the command's stdout when the path is empty.
func openReportOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newReportWriter selects the writer for the requested format.
func newReportWriter(output io.Writer, format string) (report.Writer, error) {
	switch format {
	case formatSimple:
		return report.NewSimpleWriter(output), nil
	case formatMarkdown:
		return report.NewMarkdownWriter(output), nil
	case formatJSON:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (known: simple, markdown, json)", format)
	}
}
