package nn

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// GlobalAvgPool averages a tensor over one axis, dropping it.
//
// Recognition heads use it to pool per-token or per-frame features
// before the final projection: (batch, tokens, channels) pooled over
// dim 1 becomes (batch, channels).
type GlobalAvgPool[B tensor.Backend] struct {
	dim int
}

// NewGlobalAvgPool creates a pooling module that averages over dim.
// Negative dims index from the last axis.
func NewGlobalAvgPool[B tensor.Backend](dim int) *GlobalAvgPool[B] {
	return &GlobalAvgPool[B]{dim: dim}
}

// Forward averages the input along the configured axis.
func (g *GlobalAvgPool[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	ndim := len(input.Shape())
	dim := g.dim
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("GlobalAvgPool.Forward: dim %d out of range for shape %v", g.dim, input.Shape()))
	}
	return input.MeanDim(dim, false)
}

// Parameters returns an empty slice (pooling has no trainable parameters).
func (g *GlobalAvgPool[B]) Parameters() []*Parameter[B] {
	return nil
}
