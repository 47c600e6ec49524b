package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/audioscribe/audioscribe/logger"
	"github.com/audioscribe/audioscribe/resilience"
)

// Extractor cuts one time-bounded segment out of an audio source.
// media.Engine is the production implementation.
type Extractor interface {
	Extract(ctx context.Context, src, dst string, index int, offset, window time.Duration) error
}

// Segment is one extracted, transcribable piece of the source.
type Segment struct {
	// Index is the position in the planned sequence.
	Index int
	// Path is the extracted audio file.
	Path string
	// Offset is the start position within the source.
	Offset time.Duration
	// Window is the planned segment length.
	Window time.Duration
}

// Plan lays out the segment windows for a source of the given duration.
// The count is a ceiling division with a minimum of one window: the last
// window holds the remainder, and a window that would start at or past the
// end of the audio is never planned.
func Plan(duration, segment time.Duration) []Segment {
	count := int(duration/segment) + 1
	if count > 1 && time.Duration(count-1)*segment >= duration {
		count--
	}
	plan := make([]Segment, count)
	for i := range plan {
		plan[i] = Segment{
			Index:  i,
			Offset: time.Duration(i) * segment,
			Window: segment,
		}
	}
	return plan
}

// Segmenter extracts all planned windows concurrently through a bounded pool.
type Segmenter struct {
	extractor Extractor
	pool      *resilience.Bulkhead
	log       *logger.Logger
}

// NewSegmenter creates a segmenter with the given extraction pool width.
func NewSegmenter(extractor Extractor, poolWidth int, log *logger.Logger) *Segmenter {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Segmenter{
		extractor: extractor,
		pool:      resilience.NewPool("extract", poolWidth),
		log:       log.WithComponent("segmenter"),
	}
}

// Extract runs every planned window against the source and returns the
// segments that produced usable audio, sorted by index. Failed or empty
// extractions are dropped and logged; the caller accounts for the gaps at
// reassembly time.
func (s *Segmenter) Extract(ctx context.Context, src, dir string, plan []Segment) []Segment {
	var mu sync.Mutex
	extracted := make([]Segment, 0, len(plan))

	var wg sync.WaitGroup
	for _, seg := range plan {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seg.Path = filepath.Join(dir, fmt.Sprintf("segment_%03d.m4a", seg.Index))

			err := s.pool.Execute(ctx, func() error {
				return s.extractor.Extract(ctx, src, seg.Path, seg.Index, seg.Offset, seg.Window)
			})
			if err != nil {
				s.log.Warn("dropping segment", logger.Fields(
					logger.FieldSegment, seg.Index,
					logger.FieldError, err.Error(),
				))
				return
			}

			mu.Lock()
			extracted = append(extracted, seg)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(extracted, func(i, j int) bool { return extracted[i].Index < extracted[j].Index })

	s.log.Info("extraction complete", logger.Fields(
		"planned", len(plan),
		"extracted", len(extracted),
	))
	return extracted
}
