// Package models implements composition containers for assembling
// video recognition networks out of pre-built blocks.
//
// The containers define execution order only; the blocks themselves are
// opaque nn.Module values supplied by the caller:
//   - Net: runs blocks sequentially over a single tensor
//   - DetectionBBoxNetwork: backbone plus box-conditioned detection head
//   - MultiPathwayWithFuse: parallel pathways with an optional fusion step
package models

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// WeightInitializer is implemented by blocks that know how to
// re-initialize their own weights. DefaultInit invokes it on every
// block that provides it.
type WeightInitializer interface {
	InitWeights()
}

// InitFunc is a model-level weight initialization pass. It runs exactly
// once, inside the constructor, before any Forward call.
type InitFunc[B tensor.Backend] func(blocks []nn.Module[B])

// DefaultInit re-initializes every block implementing WeightInitializer.
func DefaultInit[B tensor.Backend](blocks []nn.Module[B]) {
	for _, block := range blocks {
		if wi, ok := block.(WeightInitializer); ok {
			wi.InitWeights()
		}
	}
}

// NetConfig configures a Net.
type NetConfig[B tensor.Backend] struct {
	// Blocks are executed in order; required, at least one.
	Blocks []nn.Module[B]

	// Init replaces the default weight initialization pass when set.
	Init InitFunc[B]
}

// Net chains a list of blocks into a single network for video
// recognition:
//
//	Input -> Block 1 -> ... -> Block N -> Output
//
// Each block's output becomes the next block's input. Net performs no
// shape validation between blocks; a mismatch surfaces as whatever
// panic the offending block raises.
type Net[B tensor.Backend] struct {
	blocks []nn.Module[B]
}

// NewNet creates a Net from the configured blocks and runs the weight
// initialization pass once before returning.
func NewNet[B tensor.Backend](cfg NetConfig[B]) (*Net[B], error) {
	if len(cfg.Blocks) == 0 {
		return nil, fmt.Errorf("NewNet: %w", ErrNoBlocks)
	}

	net := &Net[B]{blocks: cfg.Blocks}

	initFn := cfg.Init
	if initFn == nil {
		initFn = DefaultInit[B]
	}
	initFn(net.blocks)

	return net, nil
}

// Forward feeds the input through every block in order and returns the
// final block's output.
func (n *Net[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := input
	for _, block := range n.blocks {
		x = block.Forward(x)
	}
	return x
}

// Parameters returns the trainable parameters of all blocks.
func (n *Net[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, block := range n.blocks {
		params = append(params, block.Parameters()...)
	}
	return params
}

// Len returns the number of blocks.
func (n *Net[B]) Len() int {
	return len(n.blocks)
}

// Block returns the block at the given index.
// Panics if index is out of bounds.
func (n *Net[B]) Block(index int) nn.Module[B] {
	if index < 0 || index >= len(n.blocks) {
		panic("Net.Block: index out of bounds")
	}
	return n.blocks[index]
}
