package lzt

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrCreateFile represents an error when creating an output file.
type ErrCreateFile struct {
	Filename string
	Err      error
}

func (e *ErrCreateFile) Error() string {
	return fmt.Sprintf("error creating file %q: %v", e.Filename, e.Err)
}

func (e *ErrCreateFile) Unwrap() error { return e.Err }

// ErrRunner wraps a failure of the external framework executor.
type ErrRunner struct {
	Job string
	Err error
}

func (e *ErrRunner) Error() string {
	return fmt.Sprintf("runner failed on job %q: %v", e.Job, e.Err)
}

func (e *ErrRunner) Unwrap() error { return e.Err }

// ErrCanvasIndex is returned for a cell that lands outside the working canvas.
type ErrCanvasIndex struct {
	Layer CaloLayer
	I, J  int
}

func (e *ErrCanvasIndex) Error() string {
	return fmt.Sprintf("cell index (%d, %d) out of canvas range [0, %d] in layer %s", e.I, e.J, CanvasSize-1, e.Layer)
}

// ErrMissingFlag is returned when a required command line flag is absent.
type ErrMissingFlag struct {
	Flag string
}

func (e *ErrMissingFlag) Error() string {
	return fmt.Sprintf("the following argument is required: %s", e.Flag)
}
