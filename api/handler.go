package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/batch"
	"github.com/kbukum/diarsplit/logger"
	"github.com/kbukum/diarsplit/media"
	"github.com/kbukum/diarsplit/resilience"
	"github.com/kbukum/diarsplit/server"
)

//go:embed templates/*.html
var templates embed.FS

// Processor runs batches.
type Processor interface {
	Process(ctx context.Context, in batch.Input, opts ...batch.Option) (*batch.Result, error)
	Config() batch.Config
}

// Handler serves the split API.
type Handler struct {
	proc     Processor
	cfg      Config
	log      *logger.Logger
	bulkhead *resilience.Bulkhead
}

// NewHandler creates a Handler. cfg is defaulted and validated.
func NewHandler(proc Processor, cfg Config, log *logger.Logger) (*Handler, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Handler{
		proc: proc,
		cfg:  cfg,
		log:  log.WithComponent("api"),
	}
	bh := cfg.Concurrency
	bh.OnReject = func(name string) {
		h.log.Warn("Batch rejected, all slots busy", logger.Fields(
			"bulkhead", name,
			"max_concurrent", cfg.Concurrency.MaxConcurrent,
		))
	}
	h.bulkhead = resilience.NewBulkhead(bh)
	return h, nil
}

// Register mounts the upload form on engine and the API under /api/v1,
// with mws applied to the API group only.
func (h *Handler) Register(engine *gin.Engine, mws ...gin.HandlerFunc) {
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))
	engine.GET("/", h.Index)

	v1 := engine.Group("/api/v1", mws...)
	v1.GET("/profiles", h.Profiles)
	v1.POST("/preview", h.Preview)
	v1.POST("/split", h.Split)
}

// Index serves the upload form.
func (h *Handler) Index(c *gin.Context) {
	cfg := h.proc.Config()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Profiles":       media.ProfileNames(),
		"DefaultProfile": cfg.Profile,
		"Extensions":     media.Extensions(),
	})
}

type profileInfo struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Video     bool   `json:"video"`
}

// Profiles lists output profiles, media backends and accepted extensions.
func (h *Handler) Profiles(c *gin.Context) {
	cfg := h.proc.Config()
	var profiles []profileInfo
	for _, name := range media.ProfileNames() {
		p, err := media.LookupProfile(name)
		if err != nil {
			continue
		}
		profiles = append(profiles, profileInfo{Name: p.Name, Extension: p.Extension, Video: p.Video})
	}
	server.RespondOK(c, gin.H{
		"profiles":         profiles,
		"backends":         append([]string{media.BackendAuto}, media.Backends()...),
		"default_profile":  cfg.Profile,
		"default_backend":  cfg.Backend,
		"media_extensions": media.Extensions(),
	})
}
