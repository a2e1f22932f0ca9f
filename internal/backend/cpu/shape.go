package cpu

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// Reshape returns a view of the tensor with a new shape. The new shape
// must describe the same number of elements; the buffer is shared.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view
}

// Transpose permutes the tensor's dimensions. With no axes the
// dimension order is reversed (standard transpose for 2D).
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axis permutation %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(outShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		permute(result.AsFloat32(), t.AsFloat32(), outShape, shape, axes)
	case tensor.Float64:
		permute(result.AsFloat64(), t.AsFloat64(), outShape, shape, axes)
	case tensor.Int32:
		permute(result.AsInt32(), t.AsInt32(), outShape, shape, axes)
	case tensor.Int64:
		permute(result.AsInt64(), t.AsInt64(), outShape, shape, axes)
	}

	return result
}

// permute copies src into dst following the axis permutation.
func permute[T any](dst, src []T, outShape, inShape tensor.Shape, axes []int) {
	outStrides := outShape.ComputeStrides()
	inStrides := inShape.ComputeStrides()

	for i := range dst {
		srcOffset := 0
		for d := 0; d < len(outShape); d++ {
			coord := (i / outStrides[d]) % outShape[d]
			srcOffset += coord * inStrides[axes[d]]
		}
		dst[i] = src[srcOffset]
	}
}

// Expand broadcasts the tensor to a new shape. Each input dimension
// must equal the target dimension or be 1; leading dimensions may be
// added on the left.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	xShape := x.Shape()

	if len(newShape) < len(xShape) {
		panic(fmt.Sprintf("expand: new shape %v has fewer dimensions than input shape %v", newShape, xShape))
	}

	align := len(newShape) - len(xShape)
	for i := 0; i < len(xShape); i++ {
		if xShape[i] != 1 && xShape[i] != newShape[align+i] {
			panic(fmt.Sprintf("expand: cannot expand dimension %d from %d to %d", i, xShape[i], newShape[align+i]))
		}
	}

	result, err := tensor.NewRaw(newShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}

	outStrides := newShape.ComputeStrides()
	inStrides := xShape.ComputeStrides()

	switch x.DType() {
	case tensor.Float32:
		expandCopy(result.AsFloat32(), x.AsFloat32(), newShape, outStrides, xShape, inStrides)
	case tensor.Float64:
		expandCopy(result.AsFloat64(), x.AsFloat64(), newShape, outStrides, xShape, inStrides)
	case tensor.Int32:
		expandCopy(result.AsInt32(), x.AsInt32(), newShape, outStrides, xShape, inStrides)
	case tensor.Int64:
		expandCopy(result.AsInt64(), x.AsInt64(), newShape, outStrides, xShape, inStrides)
	}

	return result
}

func expandCopy[T any](dst, src []T, outShape tensor.Shape, outStrides []int, inShape tensor.Shape, inStrides []int) {
	for i := range dst {
		dst[i] = src[broadcastOffset(i, outShape, outStrides, inShape, inStrides)]
	}
}
