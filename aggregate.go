package main

import "sort"

// aggregate builds the deterministic views over a complete record set:
// files by path, extension and directory buckets by lines then label, and
// the grand total. The input slice is sorted in place.
func aggregate(records []FileRecord) *Summary {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	byExt := make(map[string]*Bucket)
	byDir := make(map[string]*Bucket)
	total := 0
	for _, r := range records {
		total += r.Lines
		addTo(byExt, extensionLabel(r.Extension), r)
		addTo(byDir, topLevelDir(r.Path), r)
	}

	return &Summary{
		Files:      records,
		Extensions: sortedBuckets(byExt),
		Dirs:       sortedBuckets(byDir),
		Total:      total,
	}
}

func addTo(buckets map[string]*Bucket, label string, r FileRecord) {
	b, ok := buckets[label]
	if !ok {
		b = &Bucket{Label: label}
		buckets[label] = b
	}
	b.add(r)
}

// sortedBuckets orders buckets by summed lines descending, breaking ties by label.
func sortedBuckets(buckets map[string]*Bucket) []Bucket {
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lines != out[j].Lines {
			return out[i].Lines > out[j].Lines
		}
		return out[i].Label < out[j].Label
	})
	return out
}
