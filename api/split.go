package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/batch"
	apperrors "github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/resilience"
	"github.com/kbukum/diarsplit/server"
)

// Split runs one batch and answers with the zip archive.
func (h *Handler) Split(c *gin.Context) {
	form, err := h.bindSplit(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if c.Request.MultipartForm != nil {
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()
	}

	var res *batch.Result
	err = h.bulkhead.Execute(c.Request.Context(), func(ctx context.Context) error {
		var runErr error
		res, runErr = h.run(ctx, form)
		return runErr
	})
	if errors.Is(err, resilience.ErrBulkheadFull) || errors.Is(err, resilience.ErrBulkheadTimeout) {
		err = apperrors.ServiceBusy(err)
	}
	if err != nil {
		h.log.WithContext(c.Request.Context()).Warn("Split failed", logger.ErrorFields("split", err))
		server.RespondWithError(c, err)
		return
	}

	writeResultHeaders(c, res)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_segments.zip"`, res.Profile))
	c.Data(http.StatusOK, "application/zip", res.Archive)
}

func (h *Handler) run(ctx context.Context, form *splitForm) (*batch.Result, error) {
	mediaFile, err := form.media.Open()
	if err != nil {
		return nil, apperrors.UnreadableMedia(form.Media, err)
	}
	defer mediaFile.Close()

	csvFile, err := form.diarization.Open()
	if err != nil {
		return nil, apperrors.InvalidInput(FieldDiarization, "cannot read upload").WithCause(err)
	}
	defer csvFile.Close()

	return h.proc.Process(ctx, batch.Input{
		MediaName:   form.Media,
		Media:       mediaFile,
		Diarization: csvFile,
		Profile:     form.Profile,
		Backend:     form.Backend,
	})
}

func writeResultHeaders(c *gin.Context, res *batch.Result) {
	c.Header(HeaderBatchID, res.BatchID)
	c.Header(HeaderTotalRows, strconv.Itoa(res.TotalRows))
	c.Header(HeaderProcessedCount, strconv.Itoa(res.ProcessedCount))
	c.Header(HeaderSpeakers, strconv.Itoa(len(res.Speakers)))
	c.Header(HeaderMediaDuration, strconv.FormatFloat(res.MediaDuration, 'f', 3, 64))
	c.Header(HeaderArchiveDigest, res.Digest)
	if res.Stopped {
		c.Header(HeaderStopRow, strconv.Itoa(res.StopRow))
	}
}
