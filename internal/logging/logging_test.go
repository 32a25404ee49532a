package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMake_WritesToBuffer(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New().FromWriter(buf).Level(zerolog.InfoLevel).Make()
	require.NoError(t, err)
	require.Equal(t, 0, buf.Len())

	l.Info().Msg("hello")
	l.Debug().Msg("hidden")

	require.Contains(t, buf.String(), "hello")
	require.NotContains(t, buf.String(), "hidden")
}

func TestMake_FromPathAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockin.log")
	l, err := New().FromPath(path).Make()
	require.NoError(t, err)
	l.Warn().Str("op", "rule.add").Msg("snapshot write failed")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"op":"rule.add"`)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, l)

	l, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, zerolog.DebugLevel, l)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
