package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/validation"
)

// splitForm is the validated split upload.
type splitForm struct {
	Media       string `json:"media" validate:"required,media_file"`
	Diarization string `json:"diarization" validate:"required,csv_file"`
	Profile     string `json:"profile" validate:"omitempty,profile"`
	Backend     string `json:"backend" validate:"omitempty,oneof=auto ffmpeg wav"`

	media       *multipart.FileHeader
	diarization *multipart.FileHeader
}

type previewForm struct {
	Diarization string `json:"diarization" validate:"required,csv_file"`

	diarization *multipart.FileHeader
}

// parseMultipart reads the request form, mapping size and encoding failures
// to client errors.
func (h *Handler) parseMultipart(c *gin.Context) error {
	err := c.Request.ParseMultipartForm(h.cfg.memoryLimit())
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apperrors.PayloadTooLarge(maxErr.Limit)
	case errors.Is(err, http.ErrNotMultipart):
		return apperrors.InvalidInput("body", "expected multipart/form-data")
	default:
		return apperrors.InvalidInput("body", "malformed multipart form").WithCause(err)
	}
}

func formFile(c *gin.Context, field string) *multipart.FileHeader {
	form := c.Request.MultipartForm
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

func fileName(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return fh.Filename
}

func (h *Handler) bindSplit(c *gin.Context) (*splitForm, error) {
	if err := h.parseMultipart(c); err != nil {
		return nil, err
	}
	f := &splitForm{
		media:       formFile(c, FieldMedia),
		diarization: formFile(c, FieldDiarization),
		Profile:     c.PostForm(FieldProfile),
		Backend:     c.PostForm(FieldBackend),
	}
	f.Media = fileName(f.media)
	f.Diarization = fileName(f.diarization)
	if err := validation.Validate(f); err != nil {
		return nil, err
	}
	err := validation.New().
		NonEmptyFile(FieldMedia, f.media.Size).
		NonEmptyFile(FieldDiarization, f.diarization.Size).
		Err()
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (h *Handler) bindPreview(c *gin.Context) (*previewForm, error) {
	if err := h.parseMultipart(c); err != nil {
		return nil, err
	}
	f := &previewForm{diarization: formFile(c, FieldDiarization)}
	f.Diarization = fileName(f.diarization)
	if err := validation.Validate(f); err != nil {
		return nil, err
	}
	if err := validation.New().NonEmptyFile(FieldDiarization, f.diarization.Size).Err(); err != nil {
		return nil, err
	}
	return f, nil
}
