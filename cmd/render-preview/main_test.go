package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/magda-harmony/internal/theory"
)

func TestRunWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.mid")
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{
		"-key", "A minor", "-meter", "6/8", "-measures", "8", "-complexity", "6", "-seed", "7", "-out", out,
	}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "seed 7: i ")
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	s, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 2)
}

func TestRunStdoutIsDeterministic(t *testing.T) {
	args := []string{"-key", "Eb", "-meter", "7/8", "-seed", "3", "-out", "-"}

	var first, second, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), args, &first, &stderr))
	require.NoError(t, run(context.Background(), args, &second, &stderr))
	assert.Equal(t, []byte("MThd"), first.Bytes()[:4])
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-key", "X major", "-out", "-"}, &stdout, &stderr)
	assert.ErrorIs(t, err, theory.ErrInvalidKey)

	err = run(context.Background(), []string{"-meter", "10/8", "-out", "-"}, &stdout, &stderr)
	assert.ErrorIs(t, err, theory.ErrInvalidMeter)

	err = run(context.Background(), []string{"-measures", "0"}, &stdout, &stderr)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-h"}, &stdout, &stderr)
	assert.ErrorIs(t, err, flag.ErrHelp)
}
