// ABOUTME: Lifecycle tests for the gateway server.
// ABOUTME: Verifies startup, request serving, and graceful shutdown.

package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunShutsDownOnContextCancel(t *testing.T) {
	g := newTestGateway(t, &fakeChat{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx)
	}()

	// Give the server a moment to bind before canceling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("gateway did not shut down after context cancel")
	}
}

func TestShutdownWithoutRun(t *testing.T) {
	g := newTestGateway(t, &fakeChat{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, g.Shutdown(ctx))
}
