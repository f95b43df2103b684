// Package fix applies text edits to a source buffer.
package fix

import (
	"bytes"
	"sort"
)

// Edit replaces bytes [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Skipped is an edit that was not applied, with the index it had in the
// input slice.
type Skipped struct {
	Index  int
	Reason string
}

// Result is the rewritten buffer plus the input indices that made it in.
type Result struct {
	Content []byte
	Applied []int
	Skipped []Skipped
}

// Changed reports whether at least one edit was applied.
func (r *Result) Changed() bool { return len(r.Applied) > 0 }

type candidate struct {
	edit  Edit
	index int
}

// Apply selects a conflict-free subset of edits and applies it to src.
// Edits are ordered by start; on a tie the wider edit wins, so an outer fix
// beats the fixes nested inside it. src is not modified.
func Apply(src []byte, edits []Edit) *Result {
	res := &Result{}
	candidates := make([]candidate, 0, len(edits))
	for i, e := range edits {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Reason: "range out of bounds"})
			continue
		}
		candidates = append(candidates, candidate{edit: e, index: i})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].edit, candidates[j].edit
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	selected := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if len(selected) > 0 && spansConflict(selected[len(selected)-1].edit, c.edit) {
			res.Skipped = append(res.Skipped, Skipped{Index: c.index, Reason: "overlaps an earlier edit"})
			continue
		}
		selected = append(selected, c)
	}

	// Back to front, so earlier offsets stay valid.
	out := bytes.Clone(src)
	for i := len(selected) - 1; i >= 0; i-- {
		e := selected[i].edit
		tail := append([]byte(e.Text), out[e.End:]...)
		out = append(out[:e.Start], tail...)
	}
	for _, c := range selected {
		res.Applied = append(res.Applied, c.index)
	}
	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Index < res.Skipped[j].Index })
	res.Content = out
	return res
}

// spansConflict treats spans as half-open. Two insertions never conflict; an
// insertion conflicts with a span that strictly contains its position.
func spansConflict(a, b Edit) bool {
	if a.Start == a.End && b.Start == b.End {
		return false
	}
	if a.Start == a.End {
		return b.Start <= a.Start && a.Start < b.End
	}
	if b.Start == b.End {
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}
