package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/jobs"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/transcription"
)

// Progress checkpoints at stage boundaries. The transcription span fills
// the gap between the chunking checkpoint and completion.
const (
	progressCompressing  = 10
	progressChunking     = 20
	progressTranscribing = 30
	progressDone         = 100

	// transcribeSpan leaves headroom between the last segment result and
	// the completion checkpoint for the artifact write.
	transcribeSpan = 60
)

// MediaEngine is the audio tooling the runner depends on. media.Engine is
// the production implementation.
type MediaEngine interface {
	Extractor
	Probe(ctx context.Context, path string) (time.Duration, error)
	Reencode(ctx context.Context, src, dst string, aggressive bool) error
}

// Runner executes one transcription job end to end and owns all ledger
// writes for it.
type Runner struct {
	config   Config
	engine   MediaEngine
	provider transcription.Provider
	store    *jobs.Store
	registry *jobs.Registry
	log      *logger.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg Config, engine MediaEngine, provider transcription.Provider, store *jobs.Store, registry *jobs.Registry, log *logger.Logger) (*Runner, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Runner{
		config:   cfg,
		engine:   engine,
		provider: provider,
		store:    store,
		registry: registry,
		log:      log.WithComponent("pipeline"),
	}, nil
}

// Store exposes the job ledger for the HTTP layer.
func (r *Runner) Store() *jobs.Store {
	return r.store
}

// Submit registers a job for the uploaded source and runs it in the
// background. There is no cancellation path once a job is submitted.
func (r *Runner) Submit(jobID, sourcePath, filename string) {
	r.store.Create(jobID, filename)
	r.registry.Track(jobID)
	go func() {
		defer r.registry.Done(jobID)
		r.Run(context.Background(), jobID, sourcePath)
	}()
}

// Run executes the job synchronously: probe, strategy selection, optional
// re-encode and segmentation, dispatch, artifact write, cleanup.
func (r *Runner) Run(ctx context.Context, jobID, sourcePath string) {
	log := r.log.WithJob(jobID)
	start := time.Now()

	info, err := os.Stat(sourcePath)
	if err != nil {
		r.fail(jobID, log, errors.ProbeFailed(sourcePath, err))
		return
	}

	duration, err := r.engine.Probe(ctx, sourcePath)
	if err != nil {
		r.fail(jobID, log, err)
		return
	}

	strategy := r.config.Select(info.Size())
	log.Info("job started", logger.Fields(
		logger.FieldStrategy, strategy.String(),
		"size_bytes", info.Size(),
		"audio_duration", duration.String(),
	))

	var text string
	if strategy.Mode == ModeDirect {
		text, err = r.runDirect(ctx, jobID, sourcePath)
	} else {
		text, err = r.runSegmented(ctx, jobID, sourcePath, duration, strategy)
	}
	if err != nil {
		r.fail(jobID, log, err)
		return
	}

	artifact, err := r.writeArtifact(jobID, text)
	if err != nil {
		r.fail(jobID, log, err)
		return
	}

	r.removeFile(log, sourcePath)

	_ = r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusCompleted
		rec.Progress = progressDone
		rec.OutputFile = artifact
	})
	log.Info("job completed", logger.Fields(
		"artifact", artifact,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
}

// runDirect sends the whole source to the backend in a single call. A
// failure here has no siblings to protect, so it fails the job.
func (r *Runner) runDirect(ctx context.Context, jobID, sourcePath string) (string, error) {
	_ = r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusTranscribing
		rec.Progress = progressTranscribing
	})

	worker := NewWorker(r.provider, r.config.SegmentTimeout, r.log)
	res := worker.Transcribe(ctx, Segment{Index: 0, Path: sourcePath})
	if res.Err != nil {
		return "", res.Err
	}
	return res.Text, nil
}

// runSegmented re-encodes, extracts, and dispatches segments concurrently.
func (r *Runner) runSegmented(ctx context.Context, jobID, sourcePath string, duration time.Duration, strategy Strategy) (string, error) {
	log := r.log.WithJob(jobID)

	workDir := filepath.Join(r.config.WorkDir, jobID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", errors.ReencodeFailed(sourcePath, err)
	}
	defer r.removeDir(log, workDir)

	_ = r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusCompressing
		rec.Progress = progressCompressing
	})

	compressed := filepath.Join(workDir, "compressed.m4a")
	if err := r.engine.Reencode(ctx, sourcePath, compressed, strategy.Aggressive); err != nil {
		return "", err
	}

	_ = r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusChunking
		rec.Progress = progressChunking
	})

	plan := Plan(duration, strategy.SegmentDuration)
	segmenter := NewSegmenter(r.engine, r.config.ExtractPool, r.log)
	segments := segmenter.Extract(ctx, compressed, workDir, plan)

	_ = r.store.Update(jobID, func(rec *jobs.Record) {
		rec.Status = jobs.StatusTranscribing
		rec.Progress = progressTranscribing
		rec.TotalSegments = len(plan)
	})

	worker := NewWorker(r.provider, r.config.SegmentTimeout, r.log)
	dispatcher := NewDispatcher(worker, strategy.Width, r.log)
	results := dispatcher.Run(ctx, segments, func(completed, total int) {
		_ = r.store.Update(jobID, func(rec *jobs.Record) {
			rec.CompletedSegments = completed
			rec.Progress = progressTranscribing + completed*transcribeSpan/total
		})
	})

	for _, res := range results {
		if errors.IsFatal(res.Err) {
			return "", res.Err
		}
	}

	return Reassemble(results, len(plan)), nil
}

// writeArtifact persists the transcript under the outputs directory.
func (r *Runner) writeArtifact(jobID, text string) (string, error) {
	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return "", errors.Internal(err)
	}
	path := filepath.Join(r.config.OutputDir, fmt.Sprintf("transcription_%s.txt", jobID))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.Internal(err)
	}
	return path, nil
}

// fail moves the job to its terminal error state with a readable message.
func (r *Runner) fail(jobID string, log *logger.Logger, err error) {
	message := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		message = appErr.Message
	}
	_ = r.store.Fail(jobID, message)
	log.Error("job failed", logger.ErrorFields("pipeline", err))
}

func (r *Runner) removeFile(log *logger.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("failed to delete file", logger.Fields("path", path, logger.FieldError, err.Error()))
	}
}

func (r *Runner) removeDir(log *logger.Logger, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Warn("failed to delete work directory", logger.Fields("path", dir, logger.FieldError, err.Error()))
	}
}
