package backoff

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {

	n := 0
	try := func() error {
		n++
		if n < 30 {
			return fmt.Errorf("test error %d", n)
		}
		return nil
	}
	if err := Retry(context.Background(), try); err != nil {
		t.Fatal(err)
	}
	if n != 30 {
		t.Errorf("tried %d times", n)
	}
}

func TestRetryBounds(t *testing.T) {
	n := 0
	start := time.Now()
	c := Config{MinWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
	err := c.Retry(context.Background(), func() error {
		n++
		if n < 5 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 4*time.Millisecond {
		t.Errorf("four waits of at least 1ms took only %v", elapsed)
	}
}

func TestRetryReportAborts(t *testing.T) {
	permanent := errors.New("permanent")
	c := Config{Report: func(err error) error { return permanent }}
	err := c.Retry(context.Background(), func() error {
		return errors.New("fails")
	})
	if !errors.Is(err, permanent) {
		t.Errorf("got %v, want %v", err, permanent)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(),
		10*time.Millisecond)
	defer cancel()

	err := Config{MaxWait: time.Millisecond}.Retry(ctx, func() error {
		return errors.New("never")
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}

	// Already cancelled: try is never called.
	called := false
	err = Retry(ctx, func() error { called = true; return nil })
	if err == nil || called {
		t.Errorf("got %v, called %v", err, called)
	}
}

func TestRetryLimit(t *testing.T) {
	n := 0
	c := Config{MaxWait: time.Millisecond, Limit: 20 * time.Millisecond}
	err := c.Retry(context.Background(), func() error {
		n++
		return fmt.Errorf("attempt %d", n)
	})
	if !errors.Is(err, ErrLimit) {
		t.Fatalf("got %v, want ErrLimit", err)
	}
	if n < 2 {
		t.Errorf("gave up after %d attempts", n)
	}
	t.Log(err)
}

func TestGrow(t *testing.T) {
	c := Config{MaxWait: 10 * time.Millisecond}
	w := time.Microsecond
	for i := 0; i < 100; i++ {
		nw := c.grow(w, 0)
		if nw < w || nw > c.MaxWait {
			t.Fatalf("wait %v grew to %v", w, nw)
		}
		w = nw
	}
	if w := c.grow(time.Microsecond, 3*time.Millisecond); w < 3*time.Millisecond {
		t.Errorf("wait %v shorter than the attempt", w)
	}
}
