package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	assert.NotNil(t, p.Tracer(), "disabled provider still hands out a tracer")
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	p, err := New(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, p.config.Enabled, "telemetry must default to off")
}

// A disabled provider's TrackOperation must be a safe no-op on both
// the success and error paths.
func TestTrackOperation_DisabledProvider(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	ctx, finish := p.TrackOperation(context.Background(), "compute_curve")
	require.NotNil(t, ctx)
	assert.NotPanics(t, func() { finish(nil) })

	_, finish = p.TrackOperation(context.Background(), "compute_curve")
	assert.NotPanics(t, func() { finish(errors.New("boom")) })
}
