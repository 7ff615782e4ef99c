package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSimulate(t *testing.T) {
	t.Run("zero delay", func(t *testing.T) {
		if err := Simulate(context.Background(), 0); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("waits for delay", func(t *testing.T) {
		start := time.Now()
		if err := Simulate(context.Background(), 20*time.Millisecond); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
			t.Errorf("returned after %v, expected at least 20ms", elapsed)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := Simulate(ctx, time.Hour); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("cancelled with zero delay", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := Simulate(ctx, 0); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestTask(t *testing.T) {
	t.Run("Await returns value", func(t *testing.T) {
		task := Go(context.Background(), func(ctx context.Context) (int, error) { return 42, nil })
		v, err := task.Await(context.Background())
		if err != nil || v != 42 {
			t.Errorf("expected 42, nil; got %d, %v", v, err)
		}
		if r, ok := task.Result(); !ok || r.Value != 42 {
			t.Errorf("expected finished result 42, got %+v, %v", r, ok)
		}
	})

	t.Run("Await returns error", func(t *testing.T) {
		boom := errors.New("boom")
		task := Go(context.Background(), func(ctx context.Context) (string, error) { return "", boom })
		if _, err := task.Await(context.Background()); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("Result before finish", func(t *testing.T) {
		release := make(chan struct{})
		task := Go(context.Background(), func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		})
		if _, ok := task.Result(); ok {
			t.Error("expected unfinished task")
		}
		close(release)
		<-task.Done()
		if _, ok := task.Result(); !ok {
			t.Error("expected finished task")
		}
	})

	t.Run("Cancel interrupts simulated delay", func(t *testing.T) {
		task := Go(context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, Simulate(ctx, time.Hour)
		})
		task.Cancel()

		select {
		case <-task.Done():
		case <-time.After(time.Second):
			t.Fatal("task did not finish after cancel")
		}
		if _, err := task.Await(context.Background()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Await context expires first", func(t *testing.T) {
		task := Go(context.Background(), func(ctx context.Context) (int, error) {
			return 0, Simulate(ctx, time.Hour)
		})
		defer task.Cancel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if _, err := task.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})
}
