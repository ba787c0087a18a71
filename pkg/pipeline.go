package lzt

import (
	"context"
	"errors"
	"fmt"
)

// EventSelection is either a number of events (Count, negative for all) or an
// explicit list of event numbers.
type EventSelection struct {
	Count   int   `json:"count"`
	Numbers []int `json:"numbers,omitempty"`
}

func AllEvents() EventSelection {
	return EventSelection{Count: -1}
}

func EventCount(n int) EventSelection {
	return EventSelection{Count: n}
}

func EventNumbers(numbers []int) EventSelection {
	return EventSelection{Count: len(numbers), Numbers: numbers}
}

// JobOptions is the document the runner hands to the external framework.
type JobOptions struct {
	Pipeline   string         `json:"pipeline"`
	Name       string         `json:"name"`
	OutputFile string         `json:"output_file"`
	Properties *Component     `json:"properties"`
	Detector   *Component     `json:"detector,omitempty"`
	Sequence   []*Component   `json:"sequence"`
	Events     EventSelection `json:"events"`
}

// EventTape sequences generator filters for event generation.
type EventTape struct {
	self     *Component
	sequence []*Component
	runner   Runner
}

func NewEventTape(name, outputFile string, runNumber int, runner Runner) *EventTape {
	self := NewComponent("EventTape", name).
		SetProperty("OutputFile", outputFile).
		SetProperty("RunNumber", runNumber)
	return &EventTape{self: self, runner: runner}
}

// Add appends a stage to the tape.
func (t *EventTape) Add(c *Component) *EventTape {
	t.sequence = append(t.sequence, c)
	return t
}

func (t *EventTape) Sequence() []*Component {
	return t.sequence
}

func (t *EventTape) JobOptions(events EventSelection) *JobOptions {
	out, _ := t.self.Property("OutputFile")
	return &JobOptions{
		Pipeline:   t.self.Kind,
		Name:       t.self.Name,
		OutputFile: out.(string),
		Properties: t.self,
		Sequence:   t.sequence,
		Events:     events,
	}
}

// Run blocks until the framework has generated the selected events.
func (t *EventTape) Run(ctx context.Context, events EventSelection) error {
	if len(t.sequence) == 0 {
		return errors.New("event tape has no stages")
	}
	if t.runner == nil {
		return errors.New("event tape has no runner")
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Running %s with %d stages", t.self, len(t.sequence)), "tape")
	}
	return t.runner.Execute(ctx, t.JobOptions(events))
}

// Tool is merged into an accumulator. Some tools expand into more than one
// component, some have to sit at a given position in the sequence.
type Tool interface {
	Merge(acc *ComponentAccumulator)
}

// ComponentAccumulator sequences the simulation and reconstruction tools.
type ComponentAccumulator struct {
	self     *Component
	detector *Component
	sequence []*Component
	readers  map[*Component]bool
	runner   Runner
}

type AccumulatorOption func(*ComponentAccumulator)

func WithDetector(detector *Component) AccumulatorOption {
	return func(acc *ComponentAccumulator) {
		acc.detector = detector
	}
}

// WithProperty sets one of the accumulator properties (RunVis,
// NumberOfThreads, MergeOutputFiles, Seed, Timeout).
func WithProperty(key string, value any) AccumulatorOption {
	return func(acc *ComponentAccumulator) {
		acc.self.SetProperty(key, value)
	}
}

func NewComponentAccumulator(name, outputFile string, runner Runner, opts ...AccumulatorOption) *ComponentAccumulator {
	acc := &ComponentAccumulator{
		self:    NewComponent("ComponentAccumulator", name).SetProperty("OutputFile", outputFile),
		readers: make(map[*Component]bool),
		runner:  runner,
	}
	for _, opt := range opts {
		opt(acc)
	}
	return acc
}

func (acc *ComponentAccumulator) Property(key string) (any, bool) {
	return acc.self.Property(key)
}

func (acc *ComponentAccumulator) Add(c *Component) *ComponentAccumulator {
	acc.sequence = append(acc.sequence, c)
	return acc
}

// AddReader appends a component that feeds the sequence from a file.
// Readers must come before any other component.
func (acc *ComponentAccumulator) AddReader(c *Component) *ComponentAccumulator {
	acc.readers[c] = true
	return acc.Add(c)
}

func (acc *ComponentAccumulator) Merge(tools ...Tool) *ComponentAccumulator {
	for _, tool := range tools {
		tool.Merge(acc)
	}
	return acc
}

func (acc *ComponentAccumulator) Sequence() []*Component {
	return acc.sequence
}

func (acc *ComponentAccumulator) Detector() *Component {
	return acc.detector
}

func (acc *ComponentAccumulator) validate() error {
	if len(acc.sequence) == 0 {
		return errors.New("component accumulator has no components")
	}
	seenOther := false
	for _, c := range acc.sequence {
		if acc.readers[c] {
			if seenOther {
				return fmt.Errorf("reader %s must be first in sequence", c)
			}
			continue
		}
		seenOther = true
	}
	return nil
}

func (acc *ComponentAccumulator) JobOptions(n int) *JobOptions {
	out, _ := acc.self.Property("OutputFile")
	return &JobOptions{
		Pipeline:   acc.self.Kind,
		Name:       acc.self.Name,
		OutputFile: out.(string),
		Properties: acc.self,
		Detector:   acc.detector,
		Sequence:   acc.sequence,
		Events:     EventCount(n),
	}
}

// Run blocks until the framework has processed n events, every event when n < 0.
func (acc *ComponentAccumulator) Run(ctx context.Context, n int) error {
	if err := acc.validate(); err != nil {
		return err
	}
	if acc.runner == nil {
		return errors.New("component accumulator has no runner")
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Running %s with %d components", acc.self, len(acc.sequence)), "accumulator")
	}
	return acc.runner.Execute(ctx, acc.JobOptions(n))
}
