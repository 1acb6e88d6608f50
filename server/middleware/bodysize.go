package middleware

import (
	"net/http"

	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/util"
)

// DefaultMaxBodySize bounds a request carrying one media file and its table.
const DefaultMaxBodySize = 200 * 1024 * 1024

// BodySizeLimit returns middleware that restricts the request body to the given
// size string (e.g. "200MB", "512KB", "1GB"). Requests that declare a larger
// Content-Length are refused before the body is read.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				writeError(w, apperrors.PayloadTooLarge(size))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
