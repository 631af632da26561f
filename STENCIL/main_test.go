package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyisakuma/stencil2d-go/internal/monitoring"
	"github.com/iyisakuma/stencil2d-go/internal/run"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestStencil_EmptyClassNeedsSize(t *testing.T) {
	var buf bytes.Buffer
	err := stencil(nil, class{numHalo: 2, empty: true}, &buf)
	assert.ErrorIs(t, err, errNoClass)
	assert.Empty(t, buf.String())
}

func TestStencil_Report(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	args := []string{"-nx", "8", "-ny", "8", "-nz", "4", "-num_iter", "3", "-precision", "32", "-workers", "2", "-result_dir", dir}
	require.NoError(t, stencil(args, class{numHalo: 2, empty: true}, &buf))

	out := buf.String()
	assert.Contains(t, out, "STENCIL Benchmark Completed")
	assert.Contains(t, out, "Class           =                        U")
	assert.Contains(t, out, "   8x   8x   4")
	assert.Contains(t, out, "SUCCESSFUL")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStencil_ClassDefaults(t *testing.T) {
	var buf bytes.Buffer
	c := class{name: "T", nx: 8, ny: 8, nz: 2, numIter: 2, numHalo: 2}
	require.NoError(t, stencil([]string{"-warmup=false"}, c, &buf))
	assert.Contains(t, buf.String(), "Class           =                        T")
}

func TestStencil_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"precision", []string{"-precision", "16"}},
		{"num_halo", []string{"-num_halo", "1"}},
		{"nz", []string{"-nz", "2000"}},
	}
	c := class{name: "T", nx: 8, ny: 8, nz: 2, numIter: 2, numHalo: 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := stencil(tt.args, c, &buf)
			assert.ErrorIs(t, err, run.ErrInvalidInput)
		})
	}
}

func TestVerify(t *testing.T) {
	assert.True(t, verify(32, 32, run.P64, 10))
	assert.False(t, verify(32.01, 32, run.P64, 10))
	assert.True(t, verify(32.01, 32, run.P32, 10))
	assert.True(t, verify(0, 0, run.P64, 1))
}
