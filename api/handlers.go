package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/jobs"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/pipeline"
	"github.com/audioscribe/audioscribe/server"
)

// Handlers exposes the transcription API: upload, status polling, and
// artifact download.
type Handlers struct {
	config Config
	runner *pipeline.Runner
	log    *logger.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(cfg Config, runner *pipeline.Runner, log *logger.Logger) *Handlers {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Handlers{config: cfg, runner: runner, log: log.WithComponent("api")}
}

// Register mounts the API routes on the Gin engine.
func (h *Handlers) Register(engine *gin.Engine) {
	engine.POST("/upload", h.Upload)
	engine.GET("/status/:job_id", h.Status)
	engine.GET("/download/:job_id", h.Download)
	engine.GET("/jobs", h.List)
}

// uploadResponse is the body returned when a job is accepted.
type uploadResponse struct {
	JobID string `json:"job_id"`
}

// Upload accepts a multipart audio file, registers a job, and starts the
// pipeline in the background.
func (h *Handlers) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		server.RespondWithError(c, errors.MissingField("file"))
		return
	}
	filename := sanitizeFilename(file.Filename)
	if filename == "" {
		server.RespondWithError(c, errors.InvalidInput("file", "file name is empty"))
		return
	}

	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	jobID := uuid.New().String()
	dst := filepath.Join(h.config.UploadDir, fmt.Sprintf("%s_%s", jobID, filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	h.runner.Submit(jobID, dst, filename)
	h.log.Info("upload accepted", logger.Fields(
		logger.FieldJobID, jobID,
		"filename", filename,
		"size_bytes", file.Size,
	))

	server.RespondAccepted(c, uploadResponse{JobID: jobID})
}

// Status returns the ledger record for one job.
func (h *Handlers) Status(c *gin.Context) {
	jobID := c.Param("job_id")
	rec, ok := h.runner.Store().Get(jobID)
	if !ok {
		server.RespondWithError(c, errors.NotFound("job", jobID))
		return
	}
	server.RespondOK(c, rec)
}

// Download serves the transcript artifact for a completed job.
func (h *Handlers) Download(c *gin.Context) {
	jobID := c.Param("job_id")
	rec, ok := h.runner.Store().Get(jobID)
	if !ok {
		server.RespondWithError(c, errors.NotFound("job", jobID))
		return
	}
	if rec.Status != jobs.StatusCompleted || rec.OutputFile == "" {
		server.RespondWithError(c, errors.Conflict("transcription is not completed"))
		return
	}

	name := fmt.Sprintf("transcription_%s.txt", strings.TrimSuffix(rec.Filename, filepath.Ext(rec.Filename)))
	c.FileAttachment(rec.OutputFile, name)
}

// List returns all ledger records, newest first.
func (h *Handlers) List(c *gin.Context) {
	server.RespondOK(c, h.runner.Store().List())
}

// sanitizeFilename strips directory components and path separators from a
// client-supplied file name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '\x00':
			return '_'
		}
		return r
	}, name)
	if name == "." || name == ".." {
		return ""
	}
	return strings.TrimSpace(name)
}
