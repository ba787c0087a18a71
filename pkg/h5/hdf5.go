package h5

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

const STRLEN = 20

type FeatureHDF5 struct {
	name [STRLEN]byte
}

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func createArray(group *hdf5.Group, name string, dims []uint, maxDims []uint, chunks []uint, compression int) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, err
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	defer plist.Close()

	if err := plist.SetChunk(chunks); err != nil {
		return nil, err
	}
	if compression > 0 {
		if err := plist.SetDeflate(compression); err != nil {
			return nil, err
		}
	}
	return group.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, fileSpace, plist)
}

// create2dArray is an (unlimited, nCols) double dataset.
func create2dArray(group *hdf5.Group, name string, nCols int, compression int) (*hdf5.Dataset, error) {
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	return createArray(group, name,
		[]uint{0, uint(nCols)},
		[]uint{uint(unlimitedDims), uint(nCols)},
		[]uint{256, uint(nCols)},
		compression)
}

// create3dArray is an (unlimited, nRows, nCols) double dataset, one frame per chunk.
func create3dArray(group *hdf5.Group, name string, nRows int, nCols int, compression int) (*hdf5.Dataset, error) {
	unlimitedDims := -1
	return createArray(group, name,
		[]uint{0, uint(nRows), uint(nCols)},
		[]uint{uint(unlimitedDims), uint(nRows), uint(nCols)},
		[]uint{1, uint(nRows), uint(nCols)},
		compression)
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	unlimitedDims := -1
	fileSpace, err := hdf5.CreateSimpleDataspace([]uint{0}, []uint{uint(unlimitedDims)})
	if err != nil {
		return nil, err
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	defer plist.Close()
	if err := plist.SetChunk([]uint{128}); err != nil {
		return nil, err
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, err
	}
	return group.CreateDatasetWith(name, dtype, fileSpace, plist)
}

// appendRows grows dataset along its first dimension by count[0] and
// writes data into the new slab.
func appendRows[T any](dataset *hdf5.Dataset, data *[]T, offset uint, count []uint) error {
	if count[0] == 0 {
		return nil
	}
	newsize := append([]uint{offset + count[0]}, count[1:]...)
	if err := dataset.Resize(newsize); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := make([]uint, len(count))
	start[0] = offset
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return fmt.Errorf("select hyperslab: %w", err)
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}
