package lzt

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ArrayWriter persists the converter output under fixed names.
type ArrayWriter interface {
	WriteStrings(name string, values []string) error
	WriteMatrix(name string, rows, cols int, data []float64) error
	WriteFrames(name string, rows, cols int, frames []*mat.Dense) error
	Close() error
}

// Array names in the output archive.
const (
	FeaturesKey = "features"
	DataKey     = "data"
)

func CellsKey(layer CaloLayer) string {
	return "cells_" + layer.String()
}

// Converter flattens every valid event into a feature row and one cropped
// cell frame per calorimeter layer.
type Converter struct {
	Name    string
	labels  []string
	rows    [][]float64
	cells   map[CaloLayer][]*mat.Dense
	monitor *Monitor
}

func NewConverter(name string) *Converter {
	return &Converter{Name: name}
}

// WithMonitor fills m with every converted event.
func (c *Converter) WithMonitor(m *Monitor) *Converter {
	c.monitor = m
	return c
}

func (c *Converter) Initialize() error {
	c.labels = FeatureLabels()
	c.rows = nil
	c.cells = make(map[CaloLayer][]*mat.Dense, len(CaloLayers))
	for _, layer := range CaloLayers {
		c.cells[layer] = nil
	}
	return nil
}

// Execute skips events without a valid cluster and rings.
func (c *Converter) Execute(evt *Event) error {
	if c.cells == nil {
		return fmt.Errorf("converter %s used before Initialize", c.Name)
	}
	if !evt.Valid() {
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Skipping event %d without cluster or rings", evt.EventNumber), c.Name)
		}
		return nil
	}

	row, err := FeatureRow(evt)
	if err != nil {
		return err
	}

	frames := make(map[CaloLayer]*mat.Dense, len(CaloLayers))
	for _, layer := range CaloLayers {
		frame, err := ReshapeCells(evt.Cluster, layer)
		if err != nil {
			return fmt.Errorf("event %d: %w", evt.EventNumber, err)
		}
		frames[layer] = frame
	}

	c.rows = append(c.rows, row)
	for layer, frame := range frames {
		c.cells[layer] = append(c.cells[layer], frame)
	}
	if c.monitor != nil {
		c.monitor.Fill(evt, frames)
	}
	return nil
}

// Rows returns the number of converted events.
func (c *Converter) Rows() int {
	return len(c.rows)
}

// Frames returns the frames collected for layer.
func (c *Converter) Frames(layer CaloLayer) []*mat.Dense {
	return c.cells[layer]
}

// Finalize writes features, data and the seven cell arrays to w and closes it.
func (c *Converter) Finalize(w ArrayWriter) error {
	if err := w.WriteStrings(FeaturesKey, c.labels); err != nil {
		w.Close()
		return err
	}

	ncols := len(c.labels)
	data := make([]float64, 0, len(c.rows)*ncols)
	for _, row := range c.rows {
		data = append(data, row...)
	}
	if err := w.WriteMatrix(DataKey, len(c.rows), ncols, data); err != nil {
		w.Close()
		return err
	}

	for _, layer := range CaloLayers {
		crop := CropSize(layer)
		if err := w.WriteFrames(CellsKey(layer), crop.Rows(), crop.Cols(), c.cells[layer]); err != nil {
			w.Close()
			return err
		}
	}

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Converted %d events", len(c.rows)), c.Name)
	}
	return w.Close()
}
