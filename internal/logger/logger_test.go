package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	l, err := New(false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestScore_Fields(t *testing.T) {
	t.Parallel()

	fields := Score("a", "b", 0.5)
	require.Len(t, fields, 3)
	assert.Equal(t, "requester_id", fields[0].Key)
	assert.Equal(t, "a", fields[0].String)
	assert.Equal(t, "overall_score", fields[2].Key)
}
