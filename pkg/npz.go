package lzt

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"
)

var npyMagic = []byte("\x93NUMPY")

// NpzWriter writes a deflate compressed numpy archive, the layout produced
// by numpy.savez_compressed.
type NpzWriter struct {
	Filename string
	file     *os.File
	zw       *zip.Writer
}

func NewNpzWriter(filename string, compressionLevel int) (*NpzWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, &ErrCreateFile{Filename: filename, Err: err}
	}
	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})
	return &NpzWriter{Filename: filename, file: f, zw: zw}, nil
}

func (w *NpzWriter) create(name string) (io.Writer, error) {
	entry, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   name + ".npy",
		Method: zip.Deflate,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating %s in %q: %w", name, w.Filename, err)
	}
	return entry, nil
}

// WriteStrings stores values as a fixed width unicode array.
func (w *NpzWriter) WriteStrings(name string, values []string) error {
	width := 1
	for _, v := range values {
		width = max(width, utf8.RuneCountInString(v))
	}
	entry, err := w.create(name)
	if err != nil {
		return err
	}
	if _, err := entry.Write(npyHeader("<U"+strconv.Itoa(width), len(values))); err != nil {
		return err
	}
	buf := make([]uint32, width)
	for _, v := range values {
		clear(buf)
		i := 0
		for _, r := range v {
			buf[i] = uint32(r)
			i++
		}
		if err := binary.Write(entry, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("error writing %s: %w", name, err)
		}
	}
	return nil
}

// WriteMatrix stores a row-major rows×cols float64 array.
func (w *NpzWriter) WriteMatrix(name string, rows, cols int, data []float64) error {
	if len(data) != rows*cols {
		return fmt.Errorf("%s: %d values do not fill a %d×%d array", name, len(data), rows, cols)
	}
	entry, err := w.create(name)
	if err != nil {
		return err
	}
	if _, err := entry.Write(npyHeader("<f8", rows, cols)); err != nil {
		return err
	}
	if err := binary.Write(entry, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("error writing %s: %w", name, err)
	}
	return nil
}

// WriteFrames stores len(frames)×rows×cols float64 values.
func (w *NpzWriter) WriteFrames(name string, rows, cols int, frames []*mat.Dense) error {
	entry, err := w.create(name)
	if err != nil {
		return err
	}
	if _, err := entry.Write(npyHeader("<f8", len(frames), rows, cols)); err != nil {
		return err
	}
	row := make([]float64, cols)
	for k, frame := range frames {
		r, c := frame.Dims()
		if r != rows || c != cols {
			return fmt.Errorf("%s: frame %d is %d×%d, expected %d×%d", name, k, r, c, rows, cols)
		}
		for i := 0; i < rows; i++ {
			mat.Row(row, i, frame)
			if err := binary.Write(entry, binary.LittleEndian, row); err != nil {
				return fmt.Errorf("error writing %s: %w", name, err)
			}
		}
	}
	return nil
}

func (w *NpzWriter) Close() error {
	if err := w.zw.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("error closing archive %q: %w", w.Filename, err)
	}
	return w.file.Close()
}

// npyHeader builds a version 1.0 header padded to a 64 byte boundary.
func npyHeader(descr string, shape ...int) []byte {
	dims := make([]string, len(shape))
	for i, s := range shape {
		dims[i] = strconv.Itoa(s)
	}
	var shapeStr string
	switch len(dims) {
	case 1:
		shapeStr = "(" + dims[0] + ",)"
	default:
		shapeStr = "(" + strings.Join(dims, ", ") + ")"
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shapeStr)

	preamble := len(npyMagic) + 2 + 2
	pad := (64 - (preamble+len(dict)+1)%64) % 64
	header := dict + strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	return buf.Bytes()
}
