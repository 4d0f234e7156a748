package ipc

import (
	"context"
	"testing"
	"time"
)

func TestConnDeadlineFromContext(t *testing.T) {
	want := time.Now().Add(3 * time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()

	if got := connDeadline(ctx, time.Second); !got.Equal(want) {
		t.Errorf("connDeadline = %v, want context deadline %v", got, want)
	}
}

func TestConnDeadlineFallback(t *testing.T) {
	fallback := 5 * time.Second
	before := time.Now()
	got := connDeadline(context.Background(), fallback)

	if got.Before(before.Add(fallback)) || got.After(time.Now().Add(fallback)) {
		t.Errorf("connDeadline = %v, want ~%v from now", got, fallback)
	}
}
