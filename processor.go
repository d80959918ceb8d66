package main

import (
	"runtime"
	"sort"
	"sync"
)

// Pipeline runs list -> filter -> fetch -> count -> aggregate for one revision.
type Pipeline struct {
	lister  Lister
	fetcher Fetcher
	matcher *Matcher
	threads int
	log     *consoleLogger
}

// NewPipeline wires the stages together. threads <= 0 uses one worker per CPU.
// A nil logger discards all messages.
func NewPipeline(lister Lister, fetcher Fetcher, matcher *Matcher, threads int, log *consoleLogger) *Pipeline {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if log == nil {
		log = newConsoleLogger(nil, "error")
	}
	return &Pipeline{
		lister:  lister,
		fetcher: fetcher,
		matcher: matcher,
		threads: threads,
		log:     log,
	}
}

// Run scans revision and returns its aggregated Summary. Only a revision
// that cannot be listed is an error; unreadable files are dropped.
func (p *Pipeline) Run(revision string) (*Summary, error) {
	paths, err := p.lister.ListFiles(revision)
	if err != nil {
		return nil, err
	}
	p.log.Debugf("Listed %d tracked path(s) at %s", len(paths), revision)

	kept := p.matcher.filterPaths(paths)
	p.log.Debugf("%d path(s) excluded by patterns", len(paths)-len(kept))

	records, skipped := p.collect(revision, kept)
	p.log.Infof("Counted %d file(s), skipped %d unreadable", len(records), len(skipped))

	summary := aggregate(records)
	summary.Revision = revision
	summary.Skipped = skipped
	return summary, nil
}

// fileResult carries one worker outcome back to the collector.
type fileResult struct {
	record FileRecord
	skip   SkipReason
	path   string
}

// collect fetches and counts every path on a pool of workers. Arrival order
// never reaches the report: skipped paths are sorted here and records by aggregate.
func (p *Pipeline) collect(revision string, paths []string) ([]FileRecord, []SkippedPath) {
	numWorkers := p.threads
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	jobs := make(chan string, len(paths))
	results := make(chan fileResult, len(paths))
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go countWorker(p.fetcher, revision, jobs, results, &wg)
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	wg.Wait()
	close(results)

	records := make([]FileRecord, 0, len(paths))
	var skipped []SkippedPath
	for res := range results {
		if res.skip != SkipNone {
			p.log.Debugf("Skipping %s (%s)", res.path, res.skip)
			skipped = append(skipped, SkippedPath{Path: res.path, Reason: res.skip})
			continue
		}
		records = append(records, res.record)
	}

	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Path < skipped[j].Path
	})
	return records, skipped
}

// countWorker turns each path into a FileRecord or a skip.
func countWorker(fetcher Fetcher, revision string, jobs <-chan string, results chan<- fileResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for path := range jobs {
		blob := fetcher.Fetch(revision, path)
		if !blob.Readable() {
			results <- fileResult{path: path, skip: blob.Skip}
			continue
		}
		results <- fileResult{
			path: path,
			record: FileRecord{
				Path:      path,
				Extension: extensionOf(path),
				Lines:     countLines(blob.Text),
			},
		}
	}
}
