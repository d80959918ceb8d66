package main

import "fmt"

// FileRecord holds the line count of one tracked, non-excluded, readable file.
type FileRecord struct {
	Path      string // Forward-slash path relative to the repository root
	Extension string // Lowercased suffix including the dot (".go"), or "" when the name has none
	Lines     int
}

// noExtLabel is shown in place of an empty extension.
const noExtLabel = "(no ext)"

// rootDirLabel groups files that live directly in the repository root.
const rootDirLabel = "."

// SkipReason explains why a tracked path produced no FileRecord.
type SkipReason string

const (
	SkipNone    SkipReason = ""
	SkipBinary  SkipReason = "binary"
	SkipMissing SkipReason = "missing"
	SkipError   SkipReason = "error"
)

// Blob is the outcome of fetching one path at a revision.
// Text is only meaningful when Skip is SkipNone.
type Blob struct {
	Text string
	Skip SkipReason
}

// Readable reports whether the blob decoded as text.
func (b Blob) Readable() bool {
	return b.Skip == SkipNone
}

// SkippedPath records a path dropped during fetching. Only surfaced in strict mode.
type SkippedPath struct {
	Path   string     `json:"path" yaml:"path"`
	Reason SkipReason `json:"reason" yaml:"reason"`
}

func (s SkippedPath) String() string {
	return fmt.Sprintf("%s (%s)", s.Path, s.Reason)
}

// Bucket is an aggregation of FileRecords sharing a key (extension or directory).
type Bucket struct {
	Label string
	Lines int
	Files int
	Min   int
	Max   int
}

// add folds one record into the bucket.
func (b *Bucket) add(r FileRecord) {
	if b.Files == 0 || r.Lines < b.Min {
		b.Min = r.Lines
	}
	if r.Lines > b.Max {
		b.Max = r.Lines
	}
	b.Files++
	b.Lines += r.Lines
}

// Average returns the mean line count per file, or 0 for an empty bucket.
func (b Bucket) Average() float64 {
	if b.Files == 0 {
		return 0
	}
	return float64(b.Lines) / float64(b.Files)
}

// Summary is the fully aggregated, deterministically ordered result of a run.
type Summary struct {
	Revision   string
	Files      []FileRecord  // Ascending by path
	Extensions []Bucket      // Descending by lines, then label ascending
	Dirs       []Bucket      // Descending by lines, then label ascending
	Total      int           // Sum of all FileRecord line counts
	Skipped    []SkippedPath // Ascending by path
}
