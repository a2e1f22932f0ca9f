// Package cpu implements the CPU backend with BLAS-backed hot paths.
package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// CPUBackend implements tensor operations on CPU. Dense inner loops for
// float32 go through gonum's BLAS bindings where a routine exists.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	// Fast path: same-shape float32 addition via BLAS axpy.
	if a.DType() == tensor.Float32 && b.DType() == tensor.Float32 && a.Shape().Equal(b.Shape()) {
		result, err := tensor.NewRaw(a.Shape(), tensor.Float32, cpu.device)
		if err != nil {
			panic(fmt.Sprintf("add: %v", err))
		}
		dst := result.AsFloat32()
		copy(dst, b.AsFloat32())
		n := a.NumElements()
		blas32.Axpy(1,
			blas32.Vector{N: n, Data: a.AsFloat32(), Inc: 1},
			blas32.Vector{N: n, Data: dst, Inc: 1})
		return result
	}

	return cpu.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binaryOp applies an element-wise binary operation with broadcasting.
func (cpu *CPUBackend) binaryOp(name string, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32, f64 func(x, y float64) float64) *tensor.RawTensor {

	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		applyBinary(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), f32)
	case tensor.Float64:
		applyBinary(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), f64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", name, a.DType()))
	}

	return result
}

// applyBinary fills dst with f(a, b), broadcasting a and b to outShape.
func applyBinary[T float32 | float64](dst, a, b []T, outShape, aShape, bShape tensor.Shape, f func(x, y T) T) {
	// Same-shape fast path: no index mapping needed.
	if aShape.Equal(bShape) {
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := aShape.ComputeStrides()
	bStrides := bShape.ComputeStrides()

	for i := range dst {
		dst[i] = f(a[broadcastOffset(i, outShape, outStrides, aShape, aStrides)],
			b[broadcastOffset(i, outShape, outStrides, bShape, bStrides)])
	}
}

// broadcastOffset maps a flat output index to the flat index of the
// broadcast input. Input dimensions are aligned to the right of the
// output dimensions; size-1 input dimensions repeat.
func broadcastOffset(flat int, outShape tensor.Shape, outStrides []int, inShape tensor.Shape, inStrides []int) int {
	align := len(outShape) - len(inShape)
	offset := 0
	for d := 0; d < len(inShape); d++ {
		coord := (flat / outStrides[align+d]) % outShape[align+d]
		if inShape[d] == 1 {
			coord = 0
		}
		offset += coord * inStrides[d]
	}
	return offset
}
