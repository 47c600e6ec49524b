package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/audioscribe/audioscribe/errors"
)

// fakeExtractor records extraction calls and optionally fails some indices.
type fakeExtractor struct {
	mu         sync.Mutex
	calls      []int
	failIndex  map[int]bool
	inFlight   atomic.Int32
	maxInUse   atomic.Int32
	extraDelay time.Duration
}

func (f *fakeExtractor) Extract(ctx context.Context, src, dst string, index int, offset, window time.Duration) error {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		observed := f.maxInUse.Load()
		if cur <= observed || f.maxInUse.CompareAndSwap(observed, cur) {
			break
		}
	}
	if f.extraDelay > 0 {
		time.Sleep(f.extraDelay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, index)
	f.mu.Unlock()

	if f.failIndex[index] {
		return errors.ExtractionFailed(index, fmt.Errorf("encoder exit 1"))
	}
	return os.WriteFile(dst, []byte("audio"), 0o644)
}

func TestPlanTilesSourceWithoutGaps(t *testing.T) {
	duration := 42 * time.Minute
	segment := 10 * time.Minute

	plan := Plan(duration, segment)
	if len(plan) != 5 {
		t.Fatalf("plan count = %d, want 5", len(plan))
	}
	for i, seg := range plan {
		if seg.Index != i {
			t.Errorf("index %d out of order", seg.Index)
		}
		want := time.Duration(i) * segment
		if seg.Offset != want {
			t.Errorf("segment %d offset = %v, want %v", i, seg.Offset, want)
		}
		if seg.Window != segment {
			t.Errorf("segment %d window = %v", i, seg.Window)
		}
	}
	// Windows tile [0, D): each starts where the previous ends, and the
	// last one covers the remainder.
	last := plan[len(plan)-1]
	if last.Offset >= duration {
		t.Error("last window starts past end of audio")
	}
	if last.Offset+last.Window < duration {
		t.Error("plan leaves a gap at the end of the audio")
	}
}

func TestPlanExactMultipleHasNoEmptyWindow(t *testing.T) {
	plan := Plan(40*time.Minute, 10*time.Minute)
	if len(plan) != 4 {
		t.Fatalf("plan count = %d, want 4", len(plan))
	}
	for _, seg := range plan {
		if seg.Offset >= 40*time.Minute {
			t.Errorf("segment %d starts past end of audio", seg.Index)
		}
	}
}

func TestPlanShortSourceGetsOneWindow(t *testing.T) {
	plan := Plan(3*time.Minute, 10*time.Minute)
	if len(plan) != 1 {
		t.Fatalf("plan count = %d, want 1", len(plan))
	}
	if plan[0].Offset != 0 {
		t.Errorf("offset = %v", plan[0].Offset)
	}
}

func TestSegmenterExtractsAll(t *testing.T) {
	extractor := &fakeExtractor{}
	segmenter := NewSegmenter(extractor, 10, nil)
	dir := t.TempDir()

	plan := Plan(42*time.Minute, 10*time.Minute)
	segments := segmenter.Extract(context.Background(), "src.m4a", dir, plan)

	if len(segments) != 5 {
		t.Fatalf("extracted = %d, want 5", len(segments))
	}
	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("result not sorted: position %d has index %d", i, seg.Index)
		}
		if _, err := os.Stat(seg.Path); err != nil {
			t.Errorf("segment %d file missing: %v", i, err)
		}
	}
}

func TestSegmenterDropsFailedExtractions(t *testing.T) {
	extractor := &fakeExtractor{failIndex: map[int]bool{2: true}}
	segmenter := NewSegmenter(extractor, 10, nil)

	plan := Plan(42*time.Minute, 10*time.Minute)
	segments := segmenter.Extract(context.Background(), "src.m4a", t.TempDir(), plan)

	if len(segments) != 4 {
		t.Fatalf("extracted = %d, want 4", len(segments))
	}
	for _, seg := range segments {
		if seg.Index == 2 {
			t.Error("failed segment must be dropped")
		}
	}
}

func TestSegmenterBoundsConcurrency(t *testing.T) {
	extractor := &fakeExtractor{extraDelay: 10 * time.Millisecond}
	segmenter := NewSegmenter(extractor, 3, nil)

	plan := Plan(100*time.Minute, 5*time.Minute) // 20 windows
	segments := segmenter.Extract(context.Background(), "src.m4a", t.TempDir(), plan)

	if len(segments) != 20 {
		t.Fatalf("extracted = %d, want 20", len(segments))
	}
	if got := extractor.maxInUse.Load(); got > 3 {
		t.Errorf("max concurrent extractions = %d, want <= 3", got)
	}
}
