package npy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyisakuma/stencil2d-go/internal/diffusion"
)

func TestWrite_HeaderAlignment(t *testing.T) {
	shapes := [][]int{{3}, {2, 3}, {4, 12, 12}, {1024, 1048580, 1048580}}
	for _, shape := range shapes {
		var buf bytes.Buffer
		require.NoError(t, writeHeader(&buf, Header{Descr: "<f8", Shape: shape}))
		assert.Zero(t, buf.Len()%64, "shape %v", shape)
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
		assert.True(t, strings.HasPrefix(buf.String(), magic+"\x01\x00"))
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		data := []float64{0, 1.5, -2.25, 3, 4, 5}
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, []int{2, 3}, data))

		h, got, err := Read64(&buf)
		require.NoError(t, err)
		if diff := cmp.Diff(Header{Descr: "<f8", Shape: []int{2, 3}}, h); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, data, got)
	})

	t.Run("float32", func(t *testing.T) {
		data := []float32{0.5, 0.25, -8}
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, []int{3}, data))

		h, got, err := Read64(&buf)
		require.NoError(t, err)
		assert.Equal(t, "<f4", h.Descr)
		assert.Equal(t, []int{3}, h.Shape)
		assert.Equal(t, []float64{0.5, 0.25, -8}, got)
	})
}

func TestWrite_ShapeMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []int{2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestReadHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad magic", "\x93NUMPX\x01\x00"},
		{"bad version", magic + "\x03\x00\x00\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}

	shapes := []struct {
		name  string
		shape []int
	}{
		{"product wraps to zero", []int{1 << 32, 1 << 32}},
		{"payload not addressable", []int{1 << 31, 1 << 31}},
		{"overflow after zero-free prefix", []int{3, 1 << 62}},
	}
	for _, tt := range shapes {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeHeader(&buf, Header{Descr: "<f8", Shape: tt.shape}))
			_, data, err := Read64(&buf)
			assert.ErrorIs(t, err, ErrFormat)
			assert.Nil(t, data)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, Header{Descr: "<i4", Shape: []int{1}}))
	buf.Write([]byte{0, 0, 0, 0})
	_, _, err := Read64(&buf)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestCheckedLen(t *testing.T) {
	n, ok := checkedLen([]int{4, 12, 12})
	assert.True(t, ok)
	assert.Equal(t, 576, n)

	n, ok = checkedLen([]int{0, 1 << 62, 1 << 62})
	assert.True(t, ok)
	assert.Zero(t, n)

	_, ok = checkedLen([]int{1 << 32, 1 << 32})
	assert.False(t, ok)
}

func TestResultName(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	p := RunParams{Nx: 128, Ny: 64, Nz: 32, NumIter: 1024, NumHalo: 2, Precision: 32}

	name := ResultName(ts, p)
	assert.Equal(t, "20240506T070809-nx128_ny64_nz32_iter1024_halo2_p32.npy", name)

	gotTime, gotParams, err := ParseResultName(filepath.Join("data", "go", name))
	require.NoError(t, err)
	assert.True(t, ts.Equal(gotTime))
	if diff := cmp.Diff(p, gotParams); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"", "result.npy", "20240506T070809-nx1_ny1_nz1_iter1_halo2_p16.npy"} {
		_, _, err := ParseResultName(bad)
		assert.Error(t, err, bad)
	}
}

func TestSave(t *testing.T) {
	g := diffusion.Grid{Nx: 4, Ny: 3, Nz: 2, NumHalo: 2}
	f := diffusion.MustField[float64](g)
	diffusion.HotCube(f)

	dir := filepath.Join(t.TempDir(), "nested", "results")
	p := RunParams{Nx: 4, Ny: 3, Nz: 2, NumIter: 1, NumHalo: 2, Precision: 64}
	path, err := Save(dir, time.Now(), p, f)
	require.NoError(t, err)

	_, parsed, err := ParseResultName(path)
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	h, data, err := Read64(file)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 7, 8}, h.Shape)
	assert.Equal(t, f.Data(), data)
}
