package model

import (
	"errors"
	"fmt"

	"tabfeat/pkg/frame"
)

// ErrNotFitted is returned when a transformer is used before Fit.
var ErrNotFitted = errors.New("transformer is not fitted")

// State is the fit lifecycle of a transformer.
type State int

const (
	Unfitted State = iota
	Fitted
)

func (s State) IsFitted() bool {
	return s == Fitted
}

// Transformer learns its parameters from a frame in Fit and applies them in
// Transform. Transform must not modify its input and, once fitted, must be
// safe for concurrent use.
type Transformer interface {
	Fit(f *frame.Frame) error
	Transform(f *frame.Frame) (*frame.Frame, error)
	IsFitted() bool
}

// FeatureGenerator is a transformer that appends generated columns.
type FeatureGenerator interface {
	FeatureNamesOut() []string
}

// SourceSelector is a transformer that picks its input columns from the frame
// when none are configured. Columns passed to ExcludeColumns are never picked.
type SourceSelector interface {
	ExcludeColumns(names []string)
}

func FitTransform(t Transformer, f *frame.Frame) (*frame.Frame, error) {
	if err := t.Fit(f); err != nil {
		return nil, err
	}
	return t.Transform(f)
}

// Pipeline chains transformers. Each step is fitted on the output of the
// previous one. Columns generated by earlier steps are excluded from the
// default inputs of later steps, so only source columns feed generators.
type Pipeline struct {
	Steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{Steps: steps}
}

func (p *Pipeline) Fit(f *frame.Frame) error {
	_, err := p.FitTransform(f)
	return err
}

func (p *Pipeline) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if len(p.Steps) == 0 {
		return nil, errors.New("pipeline has no steps")
	}
	current := f
	var generated []string
	for i, step := range p.Steps {
		if selector, ok := step.(SourceSelector); ok {
			selector.ExcludeColumns(generated)
		}
		next, err := FitTransform(step, current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%T): %w", i, step, err)
		}
		if generator, ok := step.(FeatureGenerator); ok {
			generated = append(generated, generator.FeatureNamesOut()...)
		}
		current = next
	}
	return current, nil
}

func (p *Pipeline) Transform(f *frame.Frame) (*frame.Frame, error) {
	if !p.IsFitted() {
		return nil, ErrNotFitted
	}
	current := f
	for i, step := range p.Steps {
		next, err := step.Transform(current)
		if err != nil {
			return nil, fmt.Errorf("step %d (%T): %w", i, step, err)
		}
		current = next
	}
	return current, nil
}

func (p *Pipeline) IsFitted() bool {
	if len(p.Steps) == 0 {
		return false
	}
	for _, step := range p.Steps {
		if !step.IsFitted() {
			return false
		}
	}
	return true
}

// Model is a fitted pipeline together with the schema it was fitted on.
type Model struct {
	MetaData *Metadata
	Pipeline *Pipeline
}
