package h5

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"gonum.org/v1/gonum/mat"

	lzt "github.com/lorenzetti/lzt_go/pkg"
)

const GroupName = "Converter"

// Writer stores the converter arrays as datasets of an HDF5 file.
type Writer struct {
	File        *hdf5.File
	Filename    string
	Group       *hdf5.Group
	Compression int
	datasets    []*hdf5.Dataset
}

func NewWriter(filename string, compression int) (*Writer, error) {
	f, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &lzt.ErrCreateFile{Filename: filename, Err: err}
	}
	g, err := f.CreateGroup(GroupName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating group %q: %w", GroupName, err)
	}
	return &Writer{File: f, Filename: filename, Group: g, Compression: compression}, nil
}

func (w *Writer) WriteStrings(name string, values []string) error {
	table, err := createTable(w.Group, name, FeatureHDF5{})
	if err != nil {
		return fmt.Errorf("error creating table %q: %w", name, err)
	}
	w.datasets = append(w.datasets, table)

	// The array MUST be allocated at creation, HDF5 reads it through a pointer
	entries := make([]FeatureHDF5, len(values))
	for i, v := range values {
		if len(v) > STRLEN {
			return fmt.Errorf("%s: %q longer than %d bytes", name, v, STRLEN)
		}
		entries[i] = FeatureHDF5{name: convertToHdf5String(v)}
	}
	if err := appendRows(table, &entries, 0, []uint{uint(len(entries))}); err != nil {
		return fmt.Errorf("error writing %q: %w", name, err)
	}
	return nil
}

func (w *Writer) WriteMatrix(name string, rows, cols int, data []float64) error {
	if len(data) != rows*cols {
		return fmt.Errorf("%s: %d values do not fill a %d×%d array", name, len(data), rows, cols)
	}
	dset, err := create2dArray(w.Group, name, cols, w.Compression)
	if err != nil {
		return fmt.Errorf("error creating array %q: %w", name, err)
	}
	w.datasets = append(w.datasets, dset)
	if err := appendRows(dset, &data, 0, []uint{uint(rows), uint(cols)}); err != nil {
		return fmt.Errorf("error writing %q: %w", name, err)
	}
	return nil
}

func (w *Writer) WriteFrames(name string, rows, cols int, frames []*mat.Dense) error {
	dset, err := create3dArray(w.Group, name, rows, cols, w.Compression)
	if err != nil {
		return fmt.Errorf("error creating array %q: %w", name, err)
	}
	w.datasets = append(w.datasets, dset)

	data := make([]float64, 0, len(frames)*rows*cols)
	for k, frame := range frames {
		r, c := frame.Dims()
		if r != rows || c != cols {
			return fmt.Errorf("%s: frame %d is %d×%d, expected %d×%d", name, k, r, c, rows, cols)
		}
		for i := 0; i < rows; i++ {
			data = append(data, mat.Row(nil, i, frame)...)
		}
	}
	if err := appendRows(dset, &data, 0, []uint{uint(len(frames)), uint(rows), uint(cols)}); err != nil {
		return fmt.Errorf("error writing %q: %w", name, err)
	}
	return nil
}

func (w *Writer) Close() error {
	for _, d := range w.datasets {
		d.Close()
	}
	w.Group.Close()
	return w.File.Close()
}
