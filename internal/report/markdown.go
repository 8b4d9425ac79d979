package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format, intended for
// documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSites(md, summary)
	w.writeRecent(md, summary)
	w.writeTags(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with database totals.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Sites", strconv.Itoa(len(summary.Sites))},
			{"Videos", strconv.Itoa(summary.TotalVideos())},
			{"Tags listed", strconv.Itoa(len(summary.Tags))},
		},
	})
	md.PlainText("")
}

// writeSites writes the per-site totals section.
func (w *MarkdownWriter) writeSites(md *markdown.Markdown, summary *Summary) {
	md.H2("Sites")
	md.PlainText("")

	if len(summary.Sites) == 0 {
		md.PlainText("No sites crawled yet.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Sites))
	for i, site := range summary.Sites {
		rows[i] = []string{
			site.Site.Name,
			"`" + site.Site.URL + "`",
			strconv.Itoa(site.VideoCount),
			strconv.Itoa(site.TagCount),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "URL", "Videos", "Tags"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecent writes the newest-video section.
func (w *MarkdownWriter) writeRecent(md *markdown.Markdown, summary *Summary) {
	md.H2("Recent Videos")
	md.PlainText("")

	if len(summary.Recent) == 0 {
		md.PlainText("No videos stored.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Recent))
	for i, rv := range summary.Recent {
		rows[i] = []string{
			rv.Site,
			truncateString(rv.Video.Title, 50),
			rv.Video.DurationClock(),
			rv.Video.CreatedAt.Format("2006-01-02 15:04"),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Site", "Title", "Duration", "Discovered"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeTags writes the top-tags section with a distribution chart.
func (w *MarkdownWriter) writeTags(md *markdown.Markdown, summary *Summary) {
	md.H2("Top Tags")
	md.PlainText("")

	if len(summary.Tags) == 0 {
		md.PlainText("No tags stored.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Tags))
	for i, tc := range summary.Tags {
		rows[i] = []string{
			tc.Tag.Name,
			"`" + tc.Tag.Slug + "`",
			strconv.Itoa(tc.Videos),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Slug", "Videos"},
		Rows:   rows,
	})

	w.writePieChart(md, summary)
}

// writePieChart writes a mermaid pie chart of the tag distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Tag Distribution"),
		piechart.WithShowData(true),
	)

	for _, tc := range summary.Tags {
		if tc.Videos > 0 {
			chart.LabelAndIntValue(tc.Tag.Name, uint64(tc.Videos))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [vidcrawl](https://github.com/vidcrawl/vidcrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
