// Copyright 2025 Kinet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, GlobalAvgPool
//   - Activations: ReLU
//   - Positional encodings: PositionalEncoding,
//     SpatioTemporalClsPositionalEncoding, SinCosPosEmbed1D/2D/3D
//   - Utilities: Module interface, Parameter
//   - Initialization: Xavier, Kaiming, Zeros, Ones, Randn
//
// # Basic Usage
//
//	import (
//	    "github.com/kinet-ml/kinet/nn"
//	    "github.com/kinet-ml/kinet/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    head := nn.NewLinear(2048, 400, backend)
//	    output := head.Forward(features)
//	}
package nn

import (
	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// GlobalAvgPool averages a tensor over one axis, dropping it.
type GlobalAvgPool[B tensor.Backend] = nn.GlobalAvgPool[B]

// NewGlobalAvgPool creates a pooling module that averages over dim.
func NewGlobalAvgPool[B tensor.Backend](dim int) *GlobalAvgPool[B] {
	return nn.NewGlobalAvgPool[B](dim)
}

// Activations

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Positional encodings

// PositionalEncoding adds a fixed sinusoidal position table to
// (batch, seq, embed) inputs.
type PositionalEncoding[B tensor.Backend] = nn.PositionalEncoding[B]

// NewPositionalEncoding creates an encoding table covering sequences up
// to seqLen positions of embedDim channels.
func NewPositionalEncoding[B tensor.Backend](embedDim, seqLen int, backend B) *PositionalEncoding[B] {
	return nn.NewPositionalEncoding(embedDim, seqLen, backend)
}

// SpatioTemporalClsPositionalEncoding prepends an optional class token
// and adds a learned position table to video patch sequences.
type SpatioTemporalClsPositionalEncoding[B tensor.Backend] = nn.SpatioTemporalClsPositionalEncoding[B]

// NewSpatioTemporalClsPositionalEncoding creates the encoding for patch
// grids of patchEmbedShape = (T, H, W).
func NewSpatioTemporalClsPositionalEncoding[B tensor.Backend](
	embedDim int,
	patchEmbedShape [3]int,
	sepPosEmbed, hasCls bool,
	backend B,
) *SpatioTemporalClsPositionalEncoding[B] {
	return nn.NewSpatioTemporalClsPositionalEncoding(embedDim, patchEmbedShape, sepPosEmbed, hasCls, backend)
}

// SinCosPosEmbed1D builds a fixed sine-cosine embedding for a list of
// positions.
func SinCosPosEmbed1D[B tensor.Backend](embedDim int, positions []float32, backend B) *tensor.Tensor[float32, B] {
	return nn.SinCosPosEmbed1D(embedDim, positions, backend)
}

// SinCosPosEmbed2D builds a fixed sine-cosine embedding for a square
// patch grid.
func SinCosPosEmbed2D[B tensor.Backend](embedDim, gridSize int, clsToken bool, backend B) *tensor.Tensor[float32, B] {
	return nn.SinCosPosEmbed2D(embedDim, gridSize, clsToken, backend)
}

// SinCosPosEmbed3D builds a fixed sine-cosine embedding for a video
// patch grid.
func SinCosPosEmbed3D[B tensor.Backend](embedDim, gridSize, tSize int, clsToken bool, backend B) *tensor.Tensor[float32, B] {
	return nn.SinCosPosEmbed3D(embedDim, gridSize, tSize, clsToken, backend)
}

// Initialization

// Xavier initializes a tensor with Xavier/Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Kaiming initializes a tensor with Kaiming/He normal values.
func Kaiming[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Kaiming(fanIn, shape, backend)
}

// Zeros creates a tensor filled with zeros.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}

// Randn creates a tensor with values drawn from N(0, 1).
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Randn(shape, backend)
}
