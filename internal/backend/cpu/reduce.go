package cpu

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// Sum reduces the tensor to its total sum, returned as a single-element
// tensor of shape (1,).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		var total float32
		for _, v := range x.AsFloat32() {
			total += v
		}
		result.AsFloat32()[0] = total
	case tensor.Float64:
		var total float64
		for _, v := range x.AsFloat64() {
			total += v
		}
		result.AsFloat64()[0] = total
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

// MeanDim computes the mean along a dimension.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("meandim: dimension %d out of range for %dD tensor", dim, ndim))
	}

	// Output shape: reduced dimension becomes 1 (keepDim) or is removed.
	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		for d, size := range shape {
			if d != dim {
				outShape = append(outShape, size)
			}
		}
		if len(outShape) == 0 {
			outShape = tensor.Shape{1}
		}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("meandim: %v", err))
	}

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < ndim; d++ {
		inner *= shape[d]
	}
	dsize := shape[dim]

	switch x.DType() {
	case tensor.Float32:
		meanDim(result.AsFloat32(), x.AsFloat32(), outer, dsize, inner)
	case tensor.Float64:
		meanDim(result.AsFloat64(), x.AsFloat64(), outer, dsize, inner)
	default:
		panic(fmt.Sprintf("meandim: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func meanDim[T float32 | float64](dst, src []T, outer, dsize, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			var total T
			for d := 0; d < dsize; d++ {
				total += src[(o*dsize+d)*inner+i]
			}
			dst[o*inner+i] = total / T(dsize)
		}
	}
}
