package model

import (
	"fmt"
	"strings"
)

// MaxGeneratedItems caps the size of a generated range.
const MaxGeneratedItems = 1000

// GenerateRange builds one item per number in [start, end], labeled
// prefix+n+suffix, with local ids 1..N. A reversed range is rejected.
func GenerateRange(prefix, suffix string, start, end int) ([]ChecklistItem, error) {
	if end < start {
		return nil, Invalid("range", fmt.Sprintf("end %d is before start %d", end, start))
	}
	// end >= start, so the span fits in a uint64 even for extreme ints.
	span := uint64(end) - uint64(start)
	if span >= MaxGeneratedItems {
		return nil, Invalid("range", fmt.Sprintf("range %d..%d exceeds the limit of %d items", start, end, MaxGeneratedItems))
	}

	items := make([]ChecklistItem, int(span)+1)
	for i := range items {
		items[i] = ChecklistItem{
			ID:    i + 1,
			Label: fmt.Sprintf("%s%d%s", prefix, start+i, suffix),
		}
	}
	return items, nil
}

// GenerateManual keeps the non-blank labels in order and numbers them 1..N.
func GenerateManual(labels []string) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		items = append(items, ChecklistItem{ID: len(items) + 1, Label: label})
	}
	return items
}

// GenerateItems dispatches on the task's generation mode.
func GenerateItems(nt NewTask) ([]ChecklistItem, error) {
	switch nt.Mode {
	case GenerateManualMode:
		return GenerateManual(nt.ManualLabels), nil
	case GenerateRangeMode, "":
		r := nt.Range
		return GenerateRange(r.Prefix, r.Suffix, r.Start, r.End)
	default:
		return nil, Invalid("mode", fmt.Sprintf("unknown generation mode %q", nt.Mode))
	}
}

// NextItemID returns an id not used by any item in the list.
func NextItemID(items []ChecklistItem) int {
	next := 1
	for _, it := range items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	return next
}

// NormalizeItems validates an edited item list, trims labels and numbers
// the items that have no id yet. The input slice is not modified.
func NormalizeItems(items []ChecklistItem) ([]ChecklistItem, error) {
	if err := ValidateItemLabels(items); err != nil {
		return nil, err
	}

	out := make([]ChecklistItem, len(items))
	copy(out, items)
	next := NextItemID(out)
	for i := range out {
		out[i].Label = strings.TrimSpace(out[i].Label)
		if out[i].ID == 0 {
			out[i].ID = next
			next++
		}
	}
	return out, nil
}
