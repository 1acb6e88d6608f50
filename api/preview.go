package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/diarization"
	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/server"
)

// PreviewResponse is the preview payload.
type PreviewResponse struct {
	diarization.Stats
	Rows []diarization.Row `json:"rows"`
}

// Preview validates a diarization table and returns its statistics and
// first rows. No media is involved.
func (h *Handler) Preview(c *gin.Context) {
	form, err := h.bindPreview(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	f, err := form.diarization.Open()
	if err != nil {
		server.RespondWithError(c, apperrors.InvalidInput(FieldDiarization, "cannot read upload").WithCause(err))
		return
	}
	defer f.Close()

	table, err := diarization.Parse(f)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, PreviewResponse{
		Stats: table.Stats(),
		Rows:  table.Preview(h.cfg.PreviewRows),
	})
}
