// Package diarization parses and validates speaker-turn tables.
//
// A table is a CSV document with a header naming at least the start, end
// and speaker columns. Each data row is one speaker turn; rows are kept in
// input order, which is also the order segments are extracted in.
//
// # Usage
//
//	table, err := diarization.Parse(f)
//	if err != nil {
//	    // *errors.AppError with MISSING_COLUMNS, EMPTY_DATA, NEGATIVE_TIME,
//	    // INVALID_RANGE, INVALID_FORMAT or MISSING_FIELD
//	}
//	for _, row := range table.Rows() { ... }
package diarization
