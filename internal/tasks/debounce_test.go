package tasks

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("Default Delay", func(t *testing.T) {
		if d := NewDebouncer(0); d.Delay() != DefaultDebounce {
			t.Errorf("expected %v, got %v", DefaultDebounce, d.Delay())
		}
	})

	t.Run("Runs Last Trigger Once", func(t *testing.T) {
		d := NewDebouncer(40 * time.Millisecond)
		var runs atomic.Int32
		var last atomic.Int32

		for i := 1; i <= 5; i++ {
			d.Trigger(func() { runs.Add(1); last.Store(int32(i)) })
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(150 * time.Millisecond)

		if runs.Load() != 1 {
			t.Errorf("expected 1 run, got %d", runs.Load())
		}
		if last.Load() != 5 {
			t.Errorf("expected last trigger to win, got %d", last.Load())
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)
		var runs atomic.Int32
		d.Trigger(func() { runs.Add(1) })
		d.Cancel()
		time.Sleep(60 * time.Millisecond)

		if runs.Load() != 0 {
			t.Errorf("expected no run, got %d", runs.Load())
		}
	})
}
