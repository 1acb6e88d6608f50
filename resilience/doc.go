// Package resilience guards the HTTP service against overload and lets its
// clients back off.
//
//   - Bulkhead caps how many batches run at once; ffmpeg work is CPU and
//     disk bound, so excess requests are rejected or queued briefly.
//   - RateLimiter is a token bucket; KeyedLimiter keeps one per client.
//   - Retry re-runs a call with exponential backoff while its AppError is
//     retryable, honouring server Retry-After hints. The API client uses it.
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 2})
//	err := bh.Execute(ctx, func(ctx context.Context) error {
//	    _, err := processor.Process(ctx, in)
//	    return err
//	})
package resilience
