package diarization

import (
	"github.com/kbukum/diarsplit/errors"
)

// Validate checks the table invariants in a fixed order, returning the
// first failure: empty table, then any negative time, then any row whose
// end does not follow its start.
func (t *Table) Validate() error {
	if len(t.rows) == 0 {
		return errors.EmptyData()
	}
	if err := checkNegative(t.rows); err != nil {
		return err
	}
	return checkRanges(t.rows)
}

func checkNegative(rows []Row) error {
	for _, r := range rows {
		if r.Start < 0 || r.End < 0 {
			return errors.NegativeTime(r.Index, r.Start, r.End)
		}
	}
	return nil
}

func checkRanges(rows []Row) error {
	for _, r := range rows {
		if r.End <= r.Start {
			return errors.InvalidRange(r.Index, r.Start, r.End)
		}
	}
	return nil
}

func missingColumns(header map[string]int) []string {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
