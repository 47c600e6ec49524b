package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/audioscribe/audioscribe/errors"
	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/resilience"
)

// ProgressFunc receives completion counts as segment results are recorded.
type ProgressFunc func(completed, total int)

// Dispatcher fans segments out to a bounded pool of transcription workers
// and reassembles the results in original temporal order.
type Dispatcher struct {
	worker *Worker
	width  int
	log    *logger.Logger
}

// NewDispatcher creates a dispatcher with the given pool width.
func NewDispatcher(worker *Worker, width int, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Dispatcher{
		worker: worker,
		width:  width,
		log:    log.WithComponent("dispatcher"),
	}
}

// Run submits every segment at once, bounded by the pool width, and collects
// results keyed by segment index. Each segment's file is deleted as soon as
// its result is recorded. onProgress, when non-nil, is called under the
// collection lock so completion counts are monotone.
func (d *Dispatcher) Run(ctx context.Context, segments []Segment, onProgress ProgressFunc) map[int]Result {
	pool := resilience.NewPool("transcribe", d.width)
	results := make(map[int]Result, len(segments))
	total := len(segments)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, seg := range segments {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var res Result
			err := pool.Execute(ctx, func() error {
				res = d.worker.Transcribe(ctx, seg)
				return nil
			})
			if err != nil {
				// Pool admission only fails when the context is gone.
				res = Result{Index: seg.Index, Err: errors.TranscriptionFailed(seg.Index, err)}
			}

			d.removeSegmentFile(seg.Path)

			mu.Lock()
			results[seg.Index] = res
			completed := len(results)
			if onProgress != nil {
				onProgress(completed, total)
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	return results
}

// removeSegmentFile reclaims one segment's storage. Failures are logged only.
func (d *Dispatcher) removeSegmentFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		d.log.Warn("failed to delete segment file", logger.Fields(
			"path", path,
			logger.FieldError, err.Error(),
		))
	}
}

// Reassemble builds the transcript by iterating indices 0..planned-1 in
// order: recorded text, an inline error marker for contained failures, or a
// missing-segment marker for indices never extracted. Blocks are separated
// by a blank line.
func Reassemble(results map[int]Result, planned int) string {
	blocks := make([]string, 0, planned)
	for i := 0; i < planned; i++ {
		res, ok := results[i]
		switch {
		case !ok:
			blocks = append(blocks, fmt.Sprintf("[MISSING SEGMENT %d]", i))
		case res.Err != nil:
			blocks = append(blocks, fmt.Sprintf("[ERROR: %s]", errorMessage(res.Err)))
		default:
			blocks = append(blocks, res.Text)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// errorMessage prefers the structured message over the raw error chain.
func errorMessage(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
