package api

// Response headers set on a successful split.
const (
	HeaderBatchID        = "X-Batch-Id"
	HeaderTotalRows      = "X-Total-Rows"
	HeaderProcessedCount = "X-Processed-Count"
	HeaderStopRow        = "X-Stop-Row"
	HeaderSpeakers       = "X-Speakers"
	HeaderMediaDuration  = "X-Media-Duration"
	HeaderArchiveDigest  = "X-Archive-Digest"
)

// ResponseHeaders lists the split headers browsers must be allowed to read
// through CORS.
var ResponseHeaders = []string{
	HeaderBatchID,
	HeaderTotalRows,
	HeaderProcessedCount,
	HeaderStopRow,
	HeaderSpeakers,
	HeaderMediaDuration,
	HeaderArchiveDigest,
}

// Multipart form fields.
const (
	FieldMedia       = "media"
	FieldDiarization = "diarization"
	FieldProfile     = "profile"
	FieldBackend     = "backend"
)
