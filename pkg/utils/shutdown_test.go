package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupGracefulShutdownWithContext(t *testing.T) {
	ctx, shutdown := SetupGracefulShutdownWithContext(context.Background())
	assert.NoError(t, ctx.Err())

	shutdown()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSetupGracefulShutdown_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, shutdown := SetupGracefulShutdownWithContext(parent)
	defer shutdown()

	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
