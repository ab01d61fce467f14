package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TFMV/codereview/analysis"
	"github.com/TFMV/codereview/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Formatter writes analysis results.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter writing to output, or stdout when output
// is empty. Colors are disabled for file output.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		writer = f
		file = f
		colored = false
	}
	_ = file

	return NewWriterFormatter(format, writer, colored), nil
}

// NewWriterFormatter creates a formatter around an existing writer.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{
		format:  format,
		writer:  w,
		colored: colored,
	}
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// FileReport is the serialized form of one analyzed file.
type FileReport struct {
	File   string                `json:"file"`
	Hash   string                `json:"hash,omitempty"`
	Size   int                   `json:"size"`
	Report *types.AnalysisReport `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// NewFileReports converts analyzer results for serialization.
func NewFileReports(results []analysis.FileResult) []FileReport {
	reports := make([]FileReport, len(results))
	for i, res := range results {
		reports[i] = FileReport{
			File:   res.Name,
			Hash:   res.Hash,
			Size:   res.Size,
			Report: res.Report,
		}
		if res.Err != nil {
			reports[i].Error = res.Err.Error()
		}
	}
	return reports
}

// Write renders results in the configured format.
func (f *Formatter) Write(results []analysis.FileResult) error {
	reports := NewFileReports(results)
	switch f.format {
	case FormatJSON:
		return f.outputJSON(reports)
	case FormatMarkdown:
		return renderMarkdown(f.writer, reports)
	default:
		return renderText(f.writer, reports, f.colored)
	}
}

func (f *Formatter) outputJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func renderText(w io.Writer, reports []FileReport, colored bool) error {
	for _, r := range reports {
		heading(w, r.File, colored)

		if r.Error != "" {
			if colored {
				color.New(color.FgRed).Fprintf(w, "error: %s\n\n", r.Error)
			} else {
				fmt.Fprintf(w, "error: %s\n\n", r.Error)
			}
			continue
		}

		rep := r.Report
		newTable(w, []string{"Metric", "Value"}, [][]string{
			{"Complexity score", formatScore(rep.ComplexityScore)},
			{"Total lines", strconv.Itoa(rep.Metrics.TotalLines)},
			{"Blank lines", strconv.Itoa(rep.Metrics.BlankLines)},
			{"Comment lines", strconv.Itoa(rep.Metrics.CommentLines)},
			{"Functions", strconv.Itoa(rep.Metrics.FunctionCount)},
		}, nil)

		if findings := reportFindings(rep); len(findings) > 0 {
			rows := make([][]string, len(findings))
			for i, fd := range findings {
				rows[i] = []string{string(fd.Kind), fd.Name, fd.Message}
			}
			newTable(w, []string{"Finding", "Subject", "Message"}, rows, nil)
		}

		if len(rep.Suggestions) > 0 {
			fmt.Fprintln(w, "Suggestions:")
			for _, s := range rep.Suggestions {
				if colored {
					color.New(color.FgYellow).Fprintf(w, "  - %s\n", s)
				} else {
					fmt.Fprintf(w, "  - %s\n", s)
				}
			}
			fmt.Fprintln(w)
		}
	}

	if len(reports) > 1 {
		heading(w, "Summary", colored)
		rows, footer := summaryRows(reports)
		newTable(w, []string{"File", "Score", "Lines", "Functions", "Findings"}, rows, footer)
	}
	return nil
}

func heading(w io.Writer, title string, colored bool) {
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)
}

func newTable(w io.Writer, headers []string, rows [][]string, footer []string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	if len(footer) > 0 {
		footerArgs := make([]any, len(footer))
		for i, f := range footer {
			footerArgs[i] = f
		}
		table.Footer(footerArgs...)
	}
	table.Render()
	fmt.Fprintln(w)
}

func summaryRows(reports []FileReport) ([][]string, []string) {
	rows := make([][]string, 0, len(reports))
	var lines, functions, findings, failed int
	for _, r := range reports {
		if r.Error != "" {
			failed++
			rows = append(rows, []string{r.File, "error", "-", "-", "-"})
			continue
		}
		n := len(r.Report.Issues) + len(r.Report.Practices)
		lines += r.Report.LineCount
		functions += r.Report.Metrics.FunctionCount
		findings += n
		rows = append(rows, []string{
			r.File,
			formatScore(r.Report.ComplexityScore),
			strconv.Itoa(r.Report.LineCount),
			strconv.Itoa(r.Report.Metrics.FunctionCount),
			strconv.Itoa(n),
		})
	}

	total := fmt.Sprintf("%d files", len(reports))
	if failed > 0 {
		total = fmt.Sprintf("%d files (%d failed)", len(reports), failed)
	}
	return rows, []string{total, "", strconv.Itoa(lines), strconv.Itoa(functions), strconv.Itoa(findings)}
}

func renderMarkdown(w io.Writer, reports []FileReport) error {
	for _, r := range reports {
		fmt.Fprintf(w, "## %s\n\n", r.File)

		if r.Error != "" {
			fmt.Fprintf(w, "**Error:** %s\n\n", r.Error)
			continue
		}

		rep := r.Report
		fmt.Fprintln(w, "| Metric | Value |")
		fmt.Fprintln(w, "| --- | --- |")
		fmt.Fprintf(w, "| Complexity score | %s |\n", formatScore(rep.ComplexityScore))
		fmt.Fprintf(w, "| Total lines | %d |\n", rep.Metrics.TotalLines)
		fmt.Fprintf(w, "| Blank lines | %d |\n", rep.Metrics.BlankLines)
		fmt.Fprintf(w, "| Comment lines | %d |\n", rep.Metrics.CommentLines)
		fmt.Fprintf(w, "| Functions | %d |\n", rep.Metrics.FunctionCount)
		fmt.Fprintln(w)

		if findings := reportFindings(rep); len(findings) > 0 {
			fmt.Fprintln(w, "### Findings")
			fmt.Fprintln(w)
			fmt.Fprintln(w, "| Finding | Subject | Message |")
			fmt.Fprintln(w, "| --- | --- | --- |")
			for _, fd := range findings {
				fmt.Fprintf(w, "| %s | %s | %s |\n", fd.Kind, markdownCell(fd.Name), markdownCell(fd.Message))
			}
			fmt.Fprintln(w)
		}

		if len(rep.Suggestions) > 0 {
			fmt.Fprintln(w, "### Suggestions")
			fmt.Fprintln(w)
			for _, s := range rep.Suggestions {
				fmt.Fprintf(w, "- %s\n", s)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// reportFindings lists issues followed by best-practice findings.
func reportFindings(rep *types.AnalysisReport) []types.Finding {
	return append(append([]types.Finding{}, rep.Issues...), rep.Practices...)
}

func markdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
