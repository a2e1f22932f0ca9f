// Package nn implements neural network building blocks for the Kinet
// video recognition framework.
//
// This package provides the pieces model builders compose into networks:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters
//   - Linear: fully connected layer
//   - ReLU: activation
//   - GlobalAvgPool: token/patch pooling for recognition heads
//   - Positional encodings: fixed sin/cos and learned spatio-temporal tables
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/kinet-ml/kinet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures; the model
// composition containers in internal/models operate on values of this
// interface without knowing what computation they perform.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this
	// module; shape violations panic with a message naming the module.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g. activation functions).
	Parameters() []*Parameter[B]
}
