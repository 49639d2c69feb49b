package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestServeStopsOnCancel(t *testing.T) {
	a := NewApi("127.0.0.1:0", zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, http.NotFoundHandler()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeReportsListenError(t *testing.T) {
	a := NewApi("not-an-address", zap.NewNop())
	err := a.serve(context.Background(), http.NotFoundHandler())
	assert.Error(t, err)
}
