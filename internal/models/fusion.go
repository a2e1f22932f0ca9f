package models

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// SumFusion merges pathways by element-wise addition. All pathway
// outputs must share one shape.
type SumFusion[B tensor.Backend] struct{}

// NewSumFusion creates a sum fusion stage.
func NewSumFusion[B tensor.Backend]() *SumFusion[B] {
	return &SumFusion[B]{}
}

// Fuse adds all pathway tensors together.
func (f *SumFusion[B]) Fuse(inputs []*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(inputs) == 0 {
		panic("SumFusion.Fuse: at least one pathway output required")
	}

	out := requirePathway(inputs, 0, "SumFusion")
	for i := 1; i < len(inputs); i++ {
		out = out.Add(requirePathway(inputs, i, "SumFusion"))
	}
	return out
}

// Parameters returns an empty slice (sum fusion has no parameters).
func (f *SumFusion[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// ConcatFusion merges pathways by concatenation along a fixed
// dimension, typically the channel axis.
type ConcatFusion[B tensor.Backend] struct {
	dim int
}

// NewConcatFusion creates a concatenation fusion stage along dim.
// Negative dims index from the last axis.
func NewConcatFusion[B tensor.Backend](dim int) *ConcatFusion[B] {
	return &ConcatFusion[B]{dim: dim}
}

// Fuse concatenates all pathway tensors along the configured dimension.
func (f *ConcatFusion[B]) Fuse(inputs []*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if len(inputs) == 0 {
		panic("ConcatFusion.Fuse: at least one pathway output required")
	}

	for i := range inputs {
		requirePathway(inputs, i, "ConcatFusion")
	}
	return tensor.Cat(inputs, f.dim)
}

// Parameters returns an empty slice (concatenation has no parameters).
func (f *ConcatFusion[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// requirePathway rejects absent pathway slots, which can reach a fusion
// stage when a nil block runs without in-place mode.
func requirePathway[B tensor.Backend](inputs []*tensor.Tensor[float32, B], i int, name string) *tensor.Tensor[float32, B] {
	if inputs[i] == nil {
		panic(fmt.Sprintf("%s.Fuse: pathway %d output is absent", name, i))
	}
	return inputs[i]
}
