// Package client talks to a running diarsplit server.
//
// It uploads a media file and its diarization table, retries busy or
// unreachable servers with backoff, and decodes the server's JSON error
// envelope back into *errors.AppError values:
//
//	c, err := client.New(client.Config{BaseURL: "http://localhost:8080", Token: tok})
//	res, err := c.Split(ctx, client.SplitRequest{
//		Media:       client.File{Name: "session.wav", Data: media},
//		Diarization: client.File{Name: "session.csv", Data: table},
//	})
//	// res.Archive holds the zip; res.StopRow is -1 when every row was processed.
package client
