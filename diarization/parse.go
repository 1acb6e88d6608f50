package diarization

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/kbukum/diarsplit/errors"
)

const utf8BOM = "\ufeff"

// Parse reads a CSV speaker-turn table and validates it.
//
// Header names are trimmed and matched case-sensitively; extra columns are
// ignored. Missing columns are reported before an empty body, and cell
// decoding errors before the table invariants.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.MissingColumns(RequiredColumns)
	}
	if err != nil {
		return nil, errors.InvalidFormat("diarization", "CSV").WithCause(err)
	}

	cols := indexHeader(header)
	if missing := missingColumns(cols); len(missing) > 0 {
		return nil, errors.MissingColumns(missing)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.InvalidFormat("diarization", "CSV").WithCause(err)
	}
	if len(records) == 0 {
		return nil, errors.EmptyData()
	}

	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row, err := decodeRow(i, rec, cols)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	t := &Table{rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.InvalidInput("diarization", fmt.Sprintf("cannot open %s", path)).WithCause(err)
	}
	defer f.Close()
	return Parse(f)
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func decodeRow(index int, rec []string, cols map[string]int) (Row, error) {
	start, err := parseSeconds(cell(rec, cols[ColumnStart]))
	if err != nil {
		return Row{}, errors.InvalidFormat(ColumnStart, "number of seconds").WithDetail("row", index).WithCause(err)
	}
	end, err := parseSeconds(cell(rec, cols[ColumnEnd]))
	if err != nil {
		return Row{}, errors.InvalidFormat(ColumnEnd, "number of seconds").WithDetail("row", index).WithCause(err)
	}
	speaker := strings.TrimSpace(cell(rec, cols[ColumnSpeaker]))
	if speaker == "" {
		return Row{}, errors.MissingField(ColumnSpeaker).WithDetail("row", index)
	}
	return Row{Index: index, Start: start, End: end, Speaker: speaker}, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseSeconds(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
