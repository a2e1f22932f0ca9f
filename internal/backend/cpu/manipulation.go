package cpu

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// Cat concatenates tensors along the specified dimension.
// Supports negative dim indexing (-1 = last dimension).
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	// All shapes must agree except along the concat dimension.
	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim

	result, err := tensor.NewRaw(outShape, dtype, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	switch dtype {
	case tensor.Float32:
		srcs := make([][]float32, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat32()
		}
		catBlocks(result.AsFloat32(), srcs, tensors, dim)
	case tensor.Float64:
		srcs := make([][]float64, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat64()
		}
		catBlocks(result.AsFloat64(), srcs, tensors, dim)
	case tensor.Int32:
		srcs := make([][]int32, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsInt32()
		}
		catBlocks(result.AsInt32(), srcs, tensors, dim)
	case tensor.Int64:
		srcs := make([][]int64, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsInt64()
		}
		catBlocks(result.AsInt64(), srcs, tensors, dim)
	}

	return result
}

// catBlocks interleaves per-tensor blocks. For each index of the outer
// dimensions, every tensor contributes a contiguous block of
// shape[dim]*inner elements.
func catBlocks[T any](dst []T, srcs [][]T, tensors []*tensor.RawTensor, dim int) {
	shape := tensors[0].Shape()

	outer := 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	pos := 0
	for o := 0; o < outer; o++ {
		for i, t := range tensors {
			block := t.Shape()[dim] * inner
			copy(dst[pos:pos+block], srcs[i][o*block:(o+1)*block])
			pos += block
		}
	}
}
