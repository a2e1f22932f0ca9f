package nn

import (
	"fmt"
	"math"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// SinCosPosEmbed1D builds a fixed sine-cosine embedding for a list of
// positions. The result has shape (len(positions), embedDim): the first
// half of each row holds sines, the second half cosines, both over
// frequencies 1/10000^(i/(embedDim/2)).
//
// embedDim must be even.
func SinCosPosEmbed1D[B tensor.Backend](embedDim int, positions []float32, backend B) *tensor.Tensor[float32, B] {
	if embedDim%2 != 0 {
		panic(fmt.Sprintf("SinCosPosEmbed1D: embedDim must be even, got %d", embedDim))
	}

	half := embedDim / 2
	omega := make([]float64, half)
	for i := range omega {
		omega[i] = 1.0 / math.Pow(10000, float64(i)/float64(half))
	}

	data := make([]float32, len(positions)*embedDim)
	for m, pos := range positions {
		row := data[m*embedDim:]
		for i, w := range omega {
			angle := float64(pos) * w
			row[i] = float32(math.Sin(angle))
			row[half+i] = float32(math.Cos(angle))
		}
	}

	out, err := tensor.FromSlice(data, tensor.Shape{len(positions), embedDim}, backend)
	if err != nil {
		panic(fmt.Sprintf("SinCosPosEmbed1D: %v", err))
	}
	return out
}

// SinCosPosEmbed2D builds a fixed sine-cosine embedding for a square
// grid of gridSize x gridSize patches. Each row concatenates the 1D
// embedding of the patch's column index with that of its row index.
//
// The result has shape (gridSize², embedDim), or (1+gridSize², embedDim)
// with a zero row prepended when clsToken is set. embedDim must be
// divisible by 2.
func SinCosPosEmbed2D[B tensor.Backend](embedDim, gridSize int, clsToken bool, backend B) *tensor.Tensor[float32, B] {
	if embedDim%2 != 0 {
		panic(fmt.Sprintf("SinCosPosEmbed2D: embedDim must be even, got %d", embedDim))
	}

	n := gridSize * gridSize
	cols := make([]float32, n)
	rows := make([]float32, n)
	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			cols[i*gridSize+j] = float32(j)
			rows[i*gridSize+j] = float32(i)
		}
	}

	embW := SinCosPosEmbed1D(embedDim/2, cols, backend)
	embH := SinCosPosEmbed1D(embedDim/2, rows, backend)
	emb := tensor.Cat([]*tensor.Tensor[float32, B]{embW, embH}, 1)

	if clsToken {
		zero := tensor.Zeros[float32](tensor.Shape{1, embedDim}, backend)
		emb = tensor.Cat([]*tensor.Tensor[float32, B]{zero, emb}, 0)
	}
	return emb
}

// SinCosPosEmbed3D builds a fixed sine-cosine embedding for a video
// patch grid of tSize frames by gridSize x gridSize patches. A quarter
// of the embedding dimension encodes time, three quarters encode
// space; the temporal part leads in each row.
//
// The result has shape (tSize*gridSize², embedDim), with a zero row
// prepended when clsToken is set. embedDim must be divisible by 4.
func SinCosPosEmbed3D[B tensor.Backend](embedDim, gridSize, tSize int, clsToken bool, backend B) *tensor.Tensor[float32, B] {
	if embedDim%4 != 0 {
		panic(fmt.Sprintf("SinCosPosEmbed3D: embedDim must be divisible by 4, got %d", embedDim))
	}

	dimTemporal := embedDim / 4
	dimSpatial := embedDim - dimTemporal

	frames := make([]float32, tSize)
	for t := range frames {
		frames[t] = float32(t)
	}
	embTemporal := SinCosPosEmbed1D(dimTemporal, frames, backend) // (T, D/4)
	embSpatial := SinCosPosEmbed2D(dimSpatial, gridSize, false, backend)

	numSpatial := gridSize * gridSize
	temporal := embTemporal.Data()
	spatial := embSpatial.Data()

	data := make([]float32, tSize*numSpatial*embedDim)
	for t := 0; t < tSize; t++ {
		for s := 0; s < numSpatial; s++ {
			row := data[(t*numSpatial+s)*embedDim:]
			copy(row[:dimTemporal], temporal[t*dimTemporal:(t+1)*dimTemporal])
			copy(row[dimTemporal:embedDim], spatial[s*dimSpatial:(s+1)*dimSpatial])
		}
	}

	emb, err := tensor.FromSlice(data, tensor.Shape{tSize * numSpatial, embedDim}, backend)
	if err != nil {
		panic(fmt.Sprintf("SinCosPosEmbed3D: %v", err))
	}

	if clsToken {
		zero := tensor.Zeros[float32](tensor.Shape{1, embedDim}, backend)
		emb = tensor.Cat([]*tensor.Tensor[float32, B]{zero, emb}, 0)
	}
	return emb
}
