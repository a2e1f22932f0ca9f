// Copyright 2025 Kinet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
package cpu

import (
	internalcpu "github.com/kinet-ml/kinet/internal/backend/cpu"
	"github.com/kinet-ml/kinet/tensor"
)

// Backend represents the CPU backend implementation.
//
// Dense float32 hot paths are routed through gonum's BLAS bindings;
// everything else is pure Go.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/kinet-ml/kinet/backend/cpu"
//	    "github.com/kinet-ml/kinet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
