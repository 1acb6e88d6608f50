package diarization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/diarsplit/diarization"
	"github.com/kbukum/diarsplit/errors"
)

func TestNew_ReindexesAndValidates(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Index: 7, Start: 0, End: 1, Speaker: "a"},
		{Index: 3, Start: 1, End: 2, Speaker: "b"},
	})
	require.NoError(t, err)
	rows := table.Rows()
	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, 1, rows[1].Index)

	_, err = diarization.New(nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyData))

	_, err = diarization.New([]diarization.Row{{Start: 5, End: 3, Speaker: "x"}})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRange))
}

func TestTable_RowsIsCopy(t *testing.T) {
	table, err := diarization.New([]diarization.Row{{Start: 0, End: 1, Speaker: "a"}})
	require.NoError(t, err)
	rows := table.Rows()
	rows[0].Speaker = "mutated"
	assert.Equal(t, "a", table.Rows()[0].Speaker)
}

func TestTable_Preview(t *testing.T) {
	var rows []diarization.Row
	for i := 0; i < 12; i++ {
		rows = append(rows, diarization.Row{Start: float64(i), End: float64(i) + 0.5, Speaker: "s"})
	}
	table, err := diarization.New(rows)
	require.NoError(t, err)

	assert.Len(t, table.Preview(10), 10)
	assert.Len(t, table.Preview(50), 12)
	assert.Len(t, table.Preview(-1), 12)
	assert.Empty(t, table.Preview(0))
}

func TestTable_Stats(t *testing.T) {
	table, err := diarization.New([]diarization.Row{
		{Start: 0.03, End: 2.28, Speaker: "therapist"},
		{Start: 2.28, End: 4.09, Speaker: "patient"},
		{Start: 4.09, End: 5.50, Speaker: "therapist"},
	})
	require.NoError(t, err)

	stats := table.Stats()
	assert.Equal(t, 3, stats.TotalSegments)
	assert.Equal(t, 2, stats.UniqueSpeakers)
	assert.Equal(t, []string{"therapist", "patient"}, stats.Speakers)
	assert.InDelta(t, 5.5, stats.TotalDuration, 1e-9)
	assert.Equal(t, 2, stats.SpeakerBreakdown["therapist"])
}

func TestRow_Duration(t *testing.T) {
	assert.InDelta(t, 2.25, diarization.Row{Start: 0.03, End: 2.28}.Duration(), 1e-9)
}
