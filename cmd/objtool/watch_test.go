package main

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLoop(target string) (changeLoop, chan fsnotify.Event, chan error, *atomic.Int32, chan struct{}) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	var calls atomic.Int32
	changed := make(chan struct{}, 8)

	loop := changeLoop{
		target: target,
		settle: 50 * time.Millisecond,
		events: events,
		errors: errs,
		onChange: func() {
			calls.Add(1)
			changed <- struct{}{}
		},
		log: zap.NewNop(),
	}
	return loop, events, errs, &calls, changed
}

func TestChangeLoopDebouncesBurst(t *testing.T) {
	target := filepath.Join(t.TempDir(), "panel.obj")
	loop, events, errs, calls, changed := newTestLoop(target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.run(ctx) }()

	// Editors write, rename and recreate in quick succession on one save.
	for _, op := range []fsnotify.Op{fsnotify.Write, fsnotify.Write, fsnotify.Rename, fsnotify.Create, fsnotify.Write} {
		events <- fsnotify.Event{Name: target, Op: op}
	}
	// Other files and non-content events are ignored.
	events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(target), "other.obj"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: target, Op: fsnotify.Chmod}
	errs <- errors.New("queue overflow")

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported after burst")
	}

	// Nothing else pending: a second call would arrive within one settle period.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	// A later save is a new burst.
	events <- fsnotify.Event{Name: target, Op: fsnotify.Write}
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("second save not reported")
	}
	assert.Equal(t, int32(2), calls.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestChangeLoopStopsWhenEventsClose(t *testing.T) {
	loop, events, _, calls, _ := newTestLoop("/tmp/x.obj")
	close(events)

	require.NoError(t, loop.run(context.Background()))
	assert.Zero(t, calls.Load())
}
