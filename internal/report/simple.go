package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text summaries. The format is
// plain ASCII so it pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no rows are shown.
	showEmpty bool

	// verbose adds video URLs to the recent-video listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSites(&sb, summary)
	w.writeRecent(&sb, summary)
	w.writeTags(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with database totals.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         VIDCRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated:  %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Sites:      %d\n", len(summary.Sites)))
	sb.WriteString(fmt.Sprintf("Videos:     %d\n", summary.TotalVideos()))
	sb.WriteString("\n")
}

// writeSites writes the per-site totals section.
func (w *SimpleWriter) writeSites(sb *strings.Builder, summary *Summary) {
	if len(summary.Sites) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SITES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Sites) == 0 {
		sb.WriteString("  No sites crawled yet\n")
	} else {
		for _, site := range summary.Sites {
			sb.WriteString(fmt.Sprintf("  [+] %s: %d videos, %d tags\n",
				site.Site.Name, site.VideoCount, site.TagCount))
			if w.verbose {
				sb.WriteString(fmt.Sprintf("      URL: %s\n", site.Site.URL))
			}
		}
	}
	sb.WriteString("\n")
}

// writeRecent writes the newest-video section.
func (w *SimpleWriter) writeRecent(sb *strings.Builder, summary *Summary) {
	if len(summary.Recent) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECENT VIDEOS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Recent) == 0 {
		sb.WriteString("  No videos stored\n")
	} else {
		for _, rv := range summary.Recent {
			sb.WriteString(fmt.Sprintf("  * [%s] %s (%s)\n",
				rv.Site, rv.Video.Title, rv.Video.DurationClock()))
			if w.verbose {
				sb.WriteString(fmt.Sprintf("    URL: %s\n", rv.Video.URL))
				sb.WriteString(fmt.Sprintf("    Discovered: %s\n",
					rv.Video.CreatedAt.Format("2006-01-02 15:04:05")))
			}
		}
	}
	sb.WriteString("\n")
}

// writeTags writes the top-tags section.
func (w *SimpleWriter) writeTags(sb *strings.Builder, summary *Summary) {
	if len(summary.Tags) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOP TAGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Tags) == 0 {
		sb.WriteString("  No tags stored\n")
	} else {
		for _, tc := range summary.Tags {
			sb.WriteString(fmt.Sprintf("  %-30s %d videos\n", tc.Tag.Name, tc.Videos))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by vidcrawl\n")
	sb.WriteString("https://github.com/vidcrawl/vidcrawl\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
