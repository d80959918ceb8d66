package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ReportOptions control the optional parts of a report.
type ReportOptions struct {
	ByDir  bool // Append the top-level directory view
	Strict bool // Include skipped paths (structured formats only)
}

// Reporter renders a Summary. Every format emits files, extensions and the
// grand total in that order, with identical rows.
type Reporter interface {
	Render(w io.Writer, s *Summary, opts ReportOptions) error
}

// newReporter returns the reporter for format.
func newReporter(format string) (Reporter, error) {
	switch strings.ToLower(format) {
	case formatText, "":
		return textReporter{}, nil
	case formatJSON:
		return jsonReporter{}, nil
	case formatYAML:
		return yamlReporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s. Use 'text', 'json' or 'yaml'", format)
	}
}

type textReporter struct{}

func (textReporter) Render(w io.Writer, s *Summary, opts ReportOptions) error {
	var builder strings.Builder

	fileRows := make([][2]string, 0, len(s.Files))
	for _, f := range s.Files {
		fileRows = append(fileRows, [2]string{fmt.Sprint(f.Lines), f.Path})
	}
	if err := writeTable(&builder, "PATH", fileRows); err != nil {
		return err
	}

	builder.WriteString("\n")
	if err := writeTable(&builder, "EXTENSION", bucketRows(s.Extensions)); err != nil {
		return err
	}

	builder.WriteString("\nTOTAL\n")
	builder.WriteString(fmt.Sprintf("%d\n", s.Total))

	if opts.ByDir {
		builder.WriteString("\n")
		if err := writeTable(&builder, "DIRECTORY", bucketRows(s.Dirs)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func bucketRows(buckets []Bucket) [][2]string {
	rows := make([][2]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, [2]string{fmt.Sprint(b.Lines), b.Label})
	}
	return rows
}

// writeTable writes a two column [LINES, label] table with aligned columns.
func writeTable(w io.Writer, label string, rows [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "LINES\t%s\n", label)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

// Structured report documents shared by the JSON and YAML reporters.

type fileDoc struct {
	Lines int    `json:"lines" yaml:"lines"`
	Path  string `json:"path" yaml:"path"`
}

type bucketDoc struct {
	Lines   int     `json:"lines" yaml:"lines"`
	Label   string  `json:"label" yaml:"label"`
	Files   int     `json:"files" yaml:"files"`
	Min     int     `json:"min" yaml:"min"`
	Max     int     `json:"max" yaml:"max"`
	Average float64 `json:"average" yaml:"average"`
}

type reportDoc struct {
	Revision    string        `json:"revision" yaml:"revision"`
	Files       []fileDoc     `json:"files" yaml:"files"`
	Extensions  []bucketDoc   `json:"extensions" yaml:"extensions"`
	Total       int           `json:"total" yaml:"total"`
	Directories []bucketDoc   `json:"directories,omitempty" yaml:"directories,omitempty"`
	Skipped     []SkippedPath `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

func newReportDoc(s *Summary, opts ReportOptions) reportDoc {
	doc := reportDoc{
		Revision:   s.Revision,
		Files:      make([]fileDoc, 0, len(s.Files)),
		Extensions: bucketDocs(s.Extensions),
		Total:      s.Total,
	}
	for _, f := range s.Files {
		doc.Files = append(doc.Files, fileDoc{Lines: f.Lines, Path: f.Path})
	}
	if opts.ByDir {
		doc.Directories = bucketDocs(s.Dirs)
	}
	if opts.Strict {
		doc.Skipped = s.Skipped
	}
	return doc
}

func bucketDocs(buckets []Bucket) []bucketDoc {
	docs := make([]bucketDoc, 0, len(buckets))
	for _, b := range buckets {
		docs = append(docs, bucketDoc{
			Lines:   b.Lines,
			Label:   b.Label,
			Files:   b.Files,
			Min:     b.Min,
			Max:     b.Max,
			Average: b.Average(),
		})
	}
	return docs
}

type jsonReporter struct{}

func (jsonReporter) Render(w io.Writer, s *Summary, opts ReportOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newReportDoc(s, opts))
}

type yamlReporter struct{}

func (yamlReporter) Render(w io.Writer, s *Summary, opts ReportOptions) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newReportDoc(s, opts)); err != nil {
		return err
	}
	return enc.Close()
}
