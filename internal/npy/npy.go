// Package npy reads and writes dense float arrays in the NumPy .npy
// format, version 1.0, and names result files after the run that produced
// them.
package npy

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unsafe"

	"github.com/iyisakuma/stencil2d-go/internal/diffusion"
)

const magic = "\x93NUMPY"

// ErrFormat reports a stream that is not a supported .npy array.
var ErrFormat = errors.New("npy: unsupported format")

// Header describes the array stored after the preamble.
type Header struct {
	Descr        string // "<f4" or "<f8"
	FortranOrder bool
	Shape        []int
}

// Len is the number of elements implied by the shape. Shapes returned by
// ReadHeader never overflow it.
func (h Header) Len() int {
	n := 1
	for _, d := range h.Shape {
		n *= d
	}
	return n
}

// maxElements bounds a shape so its float64 payload is addressable.
const maxElements = math.MaxInt / 8

// checkedLen is Len with every multiplication checked against maxElements.
func checkedLen(shape []int) (int, bool) {
	n := 1
	for _, d := range shape {
		if d < 0 || (d > 0 && n > maxElements/d) {
			return 0, false
		}
		n *= d
	}
	return n, true
}

func descrFor[T diffusion.Float]() string {
	var zero T
	if unsafe.Sizeof(zero) == 4 {
		return "<f4"
	}
	return "<f8"
}

// Write stores data as a C-ordered little-endian array of the given shape.
func Write[T diffusion.Float](w io.Writer, shape []int, data []T) error {
	h := Header{Descr: descrFor[T](), Shape: shape}
	if n, ok := checkedLen(shape); !ok || n != len(data) {
		return fmt.Errorf("npy: shape %v holds %d elements, got %d", shape, h.Len(), len(data))
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("npy: write data: %w", err)
	}
	return bw.Flush()
}

// WriteField stores the full field, halo included, with shape
// (nz, ny+2h, nx+2h).
func WriteField[T diffusion.Float](w io.Writer, f *diffusion.Field[T]) error {
	g := f.Grid()
	return Write(w, []int{g.Nz, g.Height(), g.Width()}, f.Data())
}

func writeHeader(w io.Writer, h Header) error {
	dims := make([]string, len(h.Shape))
	for i, d := range h.Shape {
		dims[i] = strconv.Itoa(d)
	}
	shape := strings.Join(dims, ", ")
	if len(h.Shape) == 1 {
		shape += ","
	}
	order := "False"
	if h.FortranOrder {
		order = "True"
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': (%s), }", h.Descr, order, shape)

	// magic, two version bytes and the 2 byte length precede the dict; the
	// whole preamble is padded with spaces to a multiple of 64 and ends in \n
	pre := len(magic) + 4
	pad := 64 - (pre+len(dict)+1)%64
	if pad == 64 {
		pad = 0
	}
	dict += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(dict)))
	buf.WriteString(dict)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("npy: write header: %w", err)
	}
	return nil
}

var (
	descrRe = regexp.MustCompile(`'descr':\s*'([^']*)'`)
	orderRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// ReadHeader consumes and parses the preamble of a version 1 or 2 file.
func ReadHeader(r io.Reader) (Header, error) {
	pre := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, pre); err != nil {
		return Header{}, fmt.Errorf("npy: read preamble: %w", err)
	}
	if string(pre[:len(magic)]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	var n int
	switch major := pre[len(magic)]; major {
	case 1:
		var l uint16
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return Header{}, fmt.Errorf("npy: read header length: %w", err)
		}
		n = int(l)
	case 2:
		var l uint32
		if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
			return Header{}, fmt.Errorf("npy: read header length: %w", err)
		}
		n = int(l)
	default:
		return Header{}, fmt.Errorf("%w: version %d", ErrFormat, major)
	}

	dict := make([]byte, n)
	if _, err := io.ReadFull(r, dict); err != nil {
		return Header{}, fmt.Errorf("npy: read header: %w", err)
	}

	var h Header
	m := descrRe.FindSubmatch(dict)
	if m == nil {
		return Header{}, fmt.Errorf("%w: missing descr", ErrFormat)
	}
	h.Descr = string(m[1])
	if m = orderRe.FindSubmatch(dict); m != nil {
		h.FortranOrder = string(m[1]) == "True"
	}
	m = shapeRe.FindSubmatch(dict)
	if m == nil {
		return Header{}, fmt.Errorf("%w: missing shape", ErrFormat)
	}
	for _, s := range strings.Split(string(m[1]), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 {
			return Header{}, fmt.Errorf("%w: shape entry %q", ErrFormat, s)
		}
		h.Shape = append(h.Shape, d)
	}
	if _, ok := checkedLen(h.Shape); !ok {
		return Header{}, fmt.Errorf("%w: shape %v overflows", ErrFormat, h.Shape)
	}
	return h, nil
}

// Read64 reads a float32 or float64 array and widens it to float64.
func Read64(r io.Reader) (Header, []float64, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	if h.FortranOrder {
		return Header{}, nil, fmt.Errorf("%w: fortran order", ErrFormat)
	}
	br := bufio.NewReader(r)
	out := make([]float64, h.Len())
	switch h.Descr {
	case "<f8":
		err = binary.Read(br, binary.LittleEndian, out)
	case "<f4":
		tmp := make([]float32, h.Len())
		err = binary.Read(br, binary.LittleEndian, tmp)
		for i, v := range tmp {
			out[i] = float64(v)
		}
	default:
		return Header{}, nil, fmt.Errorf("%w: dtype %s", ErrFormat, h.Descr)
	}
	if err != nil {
		return Header{}, nil, fmt.Errorf("npy: read data: %w", err)
	}
	return h, out, nil
}
