package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
)

func TestNewParsesTimeout(t *testing.T) {
	r, err := New(config.RenderConfig{Timeout: "45s"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, float64(45), r.timeout.Seconds())

	_, err = New(config.RenderConfig{Timeout: "soon"}, zap.NewNop())
	assert.Error(t, err)
}

func TestCloseWithoutLaunchIsNoop(t *testing.T) {
	r, err := New(config.RenderConfig{Timeout: "10s"}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}
