package diarization

// Stats summarises a table for previews.
type Stats struct {
	TotalSegments    int            `json:"total_segments"`
	UniqueSpeakers   int            `json:"unique_speakers"`
	Speakers         []string       `json:"speakers"`
	TotalDuration    float64        `json:"total_duration"`
	SpeakerBreakdown map[string]int `json:"speaker_breakdown"`
}

// Stats computes the summary for t.
func (t *Table) Stats() Stats {
	speakers := t.Speakers()
	return Stats{
		TotalSegments:    t.Len(),
		UniqueSpeakers:   len(speakers),
		Speakers:         speakers,
		TotalDuration:    t.TotalDuration(),
		SpeakerBreakdown: t.Breakdown(),
	}
}
