// Package batch runs one split request end to end: it persists the uploaded
// media and diarization table into a private working directory, validates
// the table, opens the media, writes the per-speaker clips and packages
// them into a zip archive. The working directory is always removed before
// Process returns.
//
//	p, err := batch.NewProcessor(cfg)
//	res, err := p.Process(ctx, batch.Input{
//	    MediaName:   "session.wav",
//	    Media:       mediaFile,
//	    Diarization: csvFile,
//	})
//	os.WriteFile("segments.zip", res.Archive, 0o644)
package batch
