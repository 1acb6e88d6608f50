package diarization

import "slices"

// Column names required in the table header.
const (
	ColumnStart   = "start"
	ColumnEnd     = "end"
	ColumnSpeaker = "speaker"
)

// RequiredColumns lists the header columns in the order they are reported
// when missing.
var RequiredColumns = []string{ColumnStart, ColumnEnd, ColumnSpeaker}

// Row is one speaker turn.
type Row struct {
	// Index is the zero-based position of the row among the data rows.
	Index int `json:"index"`
	// Start is the turn start in seconds.
	Start float64 `json:"start"`
	// End is the turn end in seconds.
	End float64 `json:"end"`
	// Speaker is the label of the speaker holding the turn.
	Speaker string `json:"speaker"`
}

// Duration returns End - Start.
func (r Row) Duration() float64 { return r.End - r.Start }

// Table is a validated, ordered set of rows.
type Table struct {
	rows []Row
}

// New validates rows and wraps them in a Table. Row indexes are reassigned
// to match the slice order.
func New(rows []Row) (*Table, error) {
	owned := make([]Row, len(rows))
	for i, r := range rows {
		r.Index = i
		owned[i] = r
	}
	t := &Table{rows: owned}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Rows returns a copy of the rows in input order.
func (t *Table) Rows() []Row {
	return slices.Clone(t.rows)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Speakers returns the distinct speaker labels in first-seen order.
func (t *Table) Speakers() []string {
	seen := make(map[string]struct{}, len(t.rows))
	var speakers []string
	for _, r := range t.rows {
		if _, ok := seen[r.Speaker]; ok {
			continue
		}
		seen[r.Speaker] = struct{}{}
		speakers = append(speakers, r.Speaker)
	}
	return speakers
}

// TotalDuration returns the largest end time in the table.
func (t *Table) TotalDuration() float64 {
	var maxEnd float64
	for _, r := range t.rows {
		maxEnd = max(maxEnd, r.End)
	}
	return maxEnd
}

// Breakdown returns the number of rows per speaker.
func (t *Table) Breakdown() map[string]int {
	counts := make(map[string]int)
	for _, r := range t.rows {
		counts[r.Speaker]++
	}
	return counts
}

// Preview returns up to n leading rows.
func (t *Table) Preview(n int) []Row {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	return slices.Clone(t.rows[:n])
}
