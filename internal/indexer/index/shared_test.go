package index

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/singleflight"
)

func TestSharedSurvivesFirstCallerCancel(t *testing.T) {
	var g singleflight.Group
	started := make(chan struct{})
	release := make(chan struct{})
	fetchErr := make(chan error, 2)
	fetch := func(ctx context.Context) (int, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		fetchErr <- ctx.Err()
		return 42, nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := shared(first, &g, "java", fetch)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan int, 1)
	go func() {
		v, err := shared(context.Background(), &g, "java", fetch)
		if err != nil {
			t.Errorf("second caller error = %v", err)
		}
		secondDone <- v
	}()

	cancel()
	if err := <-firstDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller error = %v, want context.Canceled", err)
	}
	close(release)

	if v := <-secondDone; v != 42 {
		t.Errorf("second caller got %d, want 42", v)
	}
	if err := <-fetchErr; err != nil {
		t.Errorf("fetch saw ctx error %v after first caller cancelled", err)
	}
}

func TestSharedReturnsFetchError(t *testing.T) {
	var g singleflight.Group
	boom := errors.New("boom")
	_, err := shared(context.Background(), &g, "java", func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("shared() error = %v, want %v", err, boom)
	}
}
