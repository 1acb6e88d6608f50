package diarization_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/diarization"
	"github.com/kbukum/diarsplit/errors"
)

const therapySession = `start,end,speaker
0.03,2.28,therapist
2.28,4.09,patient
4.09,5.50,therapist
5.50,7.75,patient
`

func TestParse_Valid(t *testing.T) {
	table, err := diarization.Parse(strings.NewReader(therapySession))
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, []string{"therapist", "patient"}, table.Speakers())
	assert.InDelta(t, 7.75, table.TotalDuration(), 1e-9)
	assert.Equal(t, map[string]int{"therapist": 2, "patient": 2}, table.Breakdown())

	rows := table.Rows()
	assert.Equal(t, diarization.Row{Index: 1, Start: 2.28, End: 4.09, Speaker: "patient"}, rows[1])
}

func TestParse_HeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"reordered with extra column", "speaker,confidence,end,start\ntherapist,0.9,2.28,0.03\n"},
		{"spaces around names", " start , end , speaker\n0.03,2.28,therapist\n"},
		{"byte order mark", "\ufeffstart,end,speaker\n0.03,2.28,therapist\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := diarization.Parse(strings.NewReader(tc.input))
			require.NoError(t, err)
			rows := table.Rows()
			require.Len(t, rows, 1)
			assert.Equal(t, 0.03, rows[0].Start)
			assert.Equal(t, 2.28, rows[0].End)
			assert.Equal(t, "therapist", rows[0].Speaker)
		})
	}
}

func TestParse_ErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{"empty document", "", errors.ErrCodeMissingColumns},
		{"missing speaker column", "start,end\n0,1\n", errors.ErrCodeMissingColumns},
		{"header only", "start,end,speaker\n", errors.ErrCodeEmptyData},
		{"non-numeric start", "start,end,speaker\nabc,1,x\n", errors.ErrCodeInvalidFormat},
		{"non-finite end", "start,end,speaker\n0,Inf,x\n", errors.ErrCodeInvalidFormat},
		{"blank speaker", "start,end,speaker\n0,1, \n", errors.ErrCodeMissingField},
		{"short record", "start,end,speaker\n0,1\n", errors.ErrCodeMissingField},
		{"negative start", "start,end,speaker\n-0.5,1,x\n", errors.ErrCodeNegativeTime},
		{"negative end", "start,end,speaker\n0,-1,x\n", errors.ErrCodeNegativeTime},
		{"end before start", "start,end,speaker\n5.0,3.0,x\n", errors.ErrCodeInvalidRange},
		{"zero length", "start,end,speaker\n2,2,x\n", errors.ErrCodeInvalidRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := diarization.Parse(strings.NewReader(tc.input))
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok, "expected AppError, got %T", err)
			assert.Equal(t, tc.code, appErr.Code)
		})
	}
}

func TestParse_MissingColumnsNamed(t *testing.T) {
	_, err := diarization.Parse(strings.NewReader("speaker,foo\nx,1\n"))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"start", "end"}, appErr.Details["columns"])
}

func TestParse_CheckOrder(t *testing.T) {
	// An earlier row with an inverted range does not mask a later negative time.
	input := "start,end,speaker\n5,3,a\n1,2,b\n-1,2,c\n"
	_, err := diarization.Parse(strings.NewReader(input))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNegativeTime, appErr.Code)
	assert.Equal(t, 2, appErr.Details["row"])
}

func TestParse_FirstInvalidRangeReported(t *testing.T) {
	input := "start,end,speaker\n0,1,a\n4,3,b\n9,8,c\n"
	_, err := diarization.Parse(strings.NewReader(input))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidRange, appErr.Code)
	assert.Equal(t, 1, appErr.Details["row"])
}

func TestParse_AllowsOverlapAndDuplicates(t *testing.T) {
	input := "start,end,speaker\n3,5,a\n0,4,b\n3,5,a\n"
	table, err := diarization.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"a", "b"}, table.Speakers())
}

func TestParseFile_Missing(t *testing.T) {
	_, err := diarization.ParseFile("/nonexistent/diarization.csv")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidInput))
}
