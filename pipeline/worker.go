package pipeline

import (
	"context"
	"time"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/transcription"
)

// Result is the contained outcome of one segment transcription. Err is set
// for failed segments; the failure never propagates past the worker.
type Result struct {
	// Index is the segment position in the planned sequence.
	Index int
	// Text is the transcript for successful segments.
	Text string
	// Err is the contained failure, nil on success.
	Err error
}

// Worker transcribes single segments with a per-call timeout. Any failure,
// including timeout, becomes a Result with Err set.
type Worker struct {
	provider transcription.Provider
	timeout  time.Duration
	log      *logger.Logger
}

// NewWorker creates a transcription worker.
func NewWorker(provider transcription.Provider, timeout time.Duration, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Worker{
		provider: provider,
		timeout:  timeout,
		log:      log.WithComponent("worker"),
	}
}

// Transcribe runs one segment through the provider. It never returns an
// error; failures are contained in the Result.
func (w *Worker) Transcribe(ctx context.Context, seg Segment) Result {
	callCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := w.provider.Transcribe(callCtx, transcription.Request{AudioPath: seg.Path})
	if err != nil {
		w.log.Warn("segment transcription failed", logger.Fields(
			logger.FieldSegment, seg.Index,
			logger.FieldError, err.Error(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		if errors.IsFatal(err) {
			// Configuration problems hit every segment the same way.
			// Keep the original error so the runner aborts the job.
			return Result{Index: seg.Index, Err: err}
		}
		return Result{Index: seg.Index, Err: errors.TranscriptionFailed(seg.Index, err)}
	}

	w.log.Debug("segment transcribed", logger.Fields(
		logger.FieldSegment, seg.Index,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return Result{Index: seg.Index, Text: resp.Text}
}
