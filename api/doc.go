// Package api exposes batch splitting over HTTP.
//
//	GET  /                  upload form
//	GET  /api/v1/profiles   output profiles, backends and accepted extensions
//	POST /api/v1/preview    diarization statistics and the first rows
//	POST /api/v1/split      zip archive of per-speaker clips
//
// Split runs at most Config.Concurrency.MaxConcurrent batches at once and
// answers SERVICE_BUSY beyond that.
package api
