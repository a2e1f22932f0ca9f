package models

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// Fusion merges the outputs of multiple pathways into a single tensor.
type Fusion[B tensor.Backend] interface {
	// Fuse combines one tensor per pathway into a single tensor.
	Fuse(inputs []*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of the fusion stage.
	Parameters() []*nn.Parameter[B]
}

// MultiPathwayConfig configures a MultiPathwayWithFuse.
type MultiPathwayConfig[B tensor.Backend] struct {
	// Blocks holds one entry per pathway; required, at least one. A
	// nil entry marks a pathway with no block of its own (see
	// MultiPathwayWithFuse for the pass-through semantics).
	Blocks []nn.Module[B]

	// Fusion merges pathway outputs after all pathways have run.
	// Optional; without it Forward returns the per-pathway outputs.
	Fusion Fusion[B]

	// InPlace controls whether pathway outputs overwrite the input
	// slice (nil or true) or are written to a fresh slice (false).
	InPlace *bool
}

// MultiPathwayWithFuse runs N parallel pathways over N input tensors
// and optionally fuses their outputs:
//
//	Pathway 1  ...  Pathway N
//	    |               |
//	 Block 1         Block N
//	    |_____ Fusion _____|
//
// Pathways run sequentially in index order; no pathway reads another's
// output before fusion.
//
// When in-place mode is on (the default), the caller hands the input
// slice over for the duration of the call: pathway outputs overwrite
// its slots, and a pathway with a nil block keeps its original input
// (pass-through). With in-place off, outputs go to a fresh slice and
// nil-block slots stay nil; the pass-through behavior is deliberately
// tied to in-place mode.
type MultiPathwayWithFuse[B tensor.Backend] struct {
	blocks  []nn.Module[B]
	fusion  Fusion[B]
	inPlace bool
}

// NewMultiPathwayWithFuse creates a multi-pathway container from the
// configured per-pathway blocks.
func NewMultiPathwayWithFuse[B tensor.Backend](cfg MultiPathwayConfig[B]) (*MultiPathwayWithFuse[B], error) {
	if len(cfg.Blocks) == 0 {
		return nil, fmt.Errorf("NewMultiPathwayWithFuse: %w", ErrNoPathways)
	}

	inPlace := true
	if cfg.InPlace != nil {
		inPlace = *cfg.InPlace
	}

	return &MultiPathwayWithFuse[B]{
		blocks:  cfg.Blocks,
		fusion:  cfg.Fusion,
		inPlace: inPlace,
	}, nil
}

// PathwayOutput is the result of MultiPathwayWithFuse.Forward. Exactly
// one field is set: Fused when a fusion stage is configured, Pathways
// otherwise.
type PathwayOutput[B tensor.Backend] struct {
	// Fused holds the single fused tensor.
	Fused *tensor.Tensor[float32, B]

	// Pathways holds one output slot per pathway.
	Pathways []*tensor.Tensor[float32, B]
}

// IsFused reports whether the output carries a fused tensor.
func (o PathwayOutput[B]) IsFused() bool {
	return o.Fused != nil
}

// Forward runs every pathway block over its input and fuses the
// results when a fusion stage is present.
//
// inputs must hold exactly one tensor per pathway; Forward panics
// otherwise. With in-place mode on, the caller must not touch the
// input slice until the call returns.
func (m *MultiPathwayWithFuse[B]) Forward(inputs []*tensor.Tensor[float32, B]) PathwayOutput[B] {
	if len(inputs) != len(m.blocks) {
		panic(fmt.Sprintf("MultiPathwayWithFuse.Forward: expected %d pathway inputs, got %d",
			len(m.blocks), len(inputs)))
	}

	var out []*tensor.Tensor[float32, B]
	if m.inPlace {
		out = inputs
	} else {
		out = make([]*tensor.Tensor[float32, B], len(inputs))
	}

	for i, block := range m.blocks {
		if block != nil {
			out[i] = block.Forward(inputs[i])
		}
	}

	if m.fusion != nil {
		return PathwayOutput[B]{Fused: m.fusion.Fuse(out)}
	}
	return PathwayOutput[B]{Pathways: out}
}

// NumPathways returns the number of pathways.
func (m *MultiPathwayWithFuse[B]) NumPathways() int {
	return len(m.blocks)
}

// Parameters returns the trainable parameters of all pathway blocks
// and the fusion stage.
func (m *MultiPathwayWithFuse[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, block := range m.blocks {
		if block != nil {
			params = append(params, block.Parameters()...)
		}
	}
	if m.fusion != nil {
		params = append(params, m.fusion.Parameters()...)
	}
	return params
}
