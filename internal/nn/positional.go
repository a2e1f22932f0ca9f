package nn

import (
	"fmt"
	"math"

	"github.com/kinet-ml/kinet/internal/tensor"
)

// PositionalEncoding adds a fixed sinusoidal position table to inputs
// of shape (batch, seq_len, embed_dim).
//
// The table is computed once at construction:
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/embed_dim))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/embed_dim))
//
// Reference: "Attention Is All You Need", https://arxiv.org/abs/1706.03762
type PositionalEncoding[B tensor.Backend] struct {
	embedDim int
	seqLen   int
	pe       []float32 // (seqLen, embedDim), row-major
	backend  B
}

// NewPositionalEncoding creates an encoding table covering sequences up
// to seqLen positions of embedDim channels.
func NewPositionalEncoding[B tensor.Backend](embedDim, seqLen int, backend B) *PositionalEncoding[B] {
	if embedDim <= 0 || seqLen <= 0 {
		panic(fmt.Sprintf("NewPositionalEncoding: embedDim and seqLen must be positive, got %d, %d", embedDim, seqLen))
	}

	pe := make([]float32, seqLen*embedDim)
	for pos := 0; pos < seqLen; pos++ {
		for i := 0; i < embedDim; i += 2 {
			div := math.Exp(float64(i) * (-math.Log(10000.0) / float64(embedDim)))
			angle := float64(pos) * div
			pe[pos*embedDim+i] = float32(math.Sin(angle))
			if i+1 < embedDim {
				pe[pos*embedDim+i+1] = float32(math.Cos(angle))
			}
		}
	}

	return &PositionalEncoding[B]{
		embedDim: embedDim,
		seqLen:   seqLen,
		pe:       pe,
		backend:  backend,
	}
}

// Forward adds the position table to input of shape (B, L, D).
// L must not exceed the table's seqLen.
func (p *PositionalEncoding[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 || shape[2] != p.embedDim {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected shape (batch, seq, %d), got %v", p.embedDim, shape))
	}
	if shape[1] > p.seqLen {
		panic(fmt.Sprintf("PositionalEncoding.Forward: cannot encode %d positions with a table of %d", shape[1], p.seqLen))
	}

	table, err := tensor.FromSlice(p.pe[:shape[1]*p.embedDim], tensor.Shape{1, shape[1], p.embedDim}, p.backend)
	if err != nil {
		panic(fmt.Sprintf("PositionalEncoding.Forward: %v", err))
	}

	// (1, L, D) broadcasts over the batch dimension.
	return input.Add(table)
}

// Parameters returns an empty slice; the table is fixed, not trained.
func (p *PositionalEncoding[B]) Parameters() []*Parameter[B] {
	return nil
}

// SpatioTemporalClsPositionalEncoding prepends an optional class token
// and adds a learned position table to patch sequences produced by a
// video patch embedding.
//
// Input shape is (batch, patches, embed_dim) where patches is the
// product of the temporal and spatial patch counts (plus one when the
// class token is enabled).
//
// With separate tables enabled, one table covers spatial positions and
// another temporal positions; the effective table entry for patch
// (t, s) is spatial[s] + temporal[t].
type SpatioTemporalClsPositionalEncoding[B tensor.Backend] struct {
	embedDim        int
	patchEmbedShape [3]int // (T, H, W)
	sepPosEmbed     bool
	hasCls          bool

	numSpatial  int
	numTemporal int

	clsToken *Parameter[B] // (1, 1, D), when hasCls

	posEmbed *Parameter[B] // (1, patches, D), when !sepPosEmbed

	posEmbedSpatial  *Parameter[B] // (1, S, D), when sepPosEmbed
	posEmbedTemporal *Parameter[B] // (1, T, D), when sepPosEmbed
	posEmbedClass    *Parameter[B] // (1, 1, D), when sepPosEmbed && hasCls

	backend B
}

// NewSpatioTemporalClsPositionalEncoding creates the encoding for
// patch grids of patchEmbedShape = (T, H, W).
//
// All position tables are zero-initialized; training is expected to
// learn them.
func NewSpatioTemporalClsPositionalEncoding[B tensor.Backend](
	embedDim int,
	patchEmbedShape [3]int,
	sepPosEmbed, hasCls bool,
	backend B,
) *SpatioTemporalClsPositionalEncoding[B] {
	for _, d := range patchEmbedShape {
		if d <= 0 {
			panic(fmt.Sprintf("NewSpatioTemporalClsPositionalEncoding: patch embed shape must be positive, got %v", patchEmbedShape))
		}
	}

	e := &SpatioTemporalClsPositionalEncoding[B]{
		embedDim:        embedDim,
		patchEmbedShape: patchEmbedShape,
		sepPosEmbed:     sepPosEmbed,
		hasCls:          hasCls,
		numSpatial:      patchEmbedShape[1] * patchEmbedShape[2],
		numTemporal:     patchEmbedShape[0],
		backend:         backend,
	}

	numPatches := e.numSpatial * e.numTemporal
	if hasCls {
		e.clsToken = NewParameter("cls_token", Zeros(tensor.Shape{1, 1, embedDim}, backend))
		numPatches++
	}

	if sepPosEmbed {
		e.posEmbedSpatial = NewParameter("pos_embed_spatial", Zeros(tensor.Shape{1, e.numSpatial, embedDim}, backend))
		e.posEmbedTemporal = NewParameter("pos_embed_temporal", Zeros(tensor.Shape{1, e.numTemporal, embedDim}, backend))
		if hasCls {
			e.posEmbedClass = NewParameter("pos_embed_class", Zeros(tensor.Shape{1, 1, embedDim}, backend))
		}
	} else {
		e.posEmbed = NewParameter("pos_embed", Zeros(tensor.Shape{1, numPatches, embedDim}, backend))
	}

	return e
}

// PatchEmbedShape returns the configured (T, H, W) patch counts.
func (e *SpatioTemporalClsPositionalEncoding[B]) PatchEmbedShape() [3]int {
	return e.patchEmbedShape
}

// Forward prepends the class token (when enabled) and adds the
// position table.
func (e *SpatioTemporalClsPositionalEncoding[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 3 || shape[2] != e.embedDim {
		panic(fmt.Sprintf("SpatioTemporalClsPositionalEncoding.Forward: expected shape (batch, patches, %d), got %v", e.embedDim, shape))
	}

	x := input
	if e.hasCls {
		cls := e.clsToken.Tensor().Expand(shape[0], 1, e.embedDim)
		x = tensor.Cat([]*tensor.Tensor[float32, B]{cls, x}, 1)
	}

	return x.Add(e.positionTable())
}

// positionTable materializes the (1, patches, D) table to add.
func (e *SpatioTemporalClsPositionalEncoding[B]) positionTable() *tensor.Tensor[float32, B] {
	if !e.sepPosEmbed {
		return e.posEmbed.Tensor()
	}

	d := e.embedDim
	rows := e.numTemporal * e.numSpatial
	if e.hasCls {
		rows++
	}

	table := make([]float32, rows*d)
	spatial := e.posEmbedSpatial.Tensor().Data()
	temporal := e.posEmbedTemporal.Tensor().Data()

	offset := 0
	if e.hasCls {
		copy(table[:d], e.posEmbedClass.Tensor().Data())
		offset = 1
	}
	for t := 0; t < e.numTemporal; t++ {
		for s := 0; s < e.numSpatial; s++ {
			row := table[(offset+t*e.numSpatial+s)*d:]
			for c := 0; c < d; c++ {
				row[c] = spatial[s*d+c] + temporal[t*d+c]
			}
		}
	}

	out, err := tensor.FromSlice(table, tensor.Shape{1, rows, d}, e.backend)
	if err != nil {
		panic(fmt.Sprintf("SpatioTemporalClsPositionalEncoding: %v", err))
	}
	return out
}

// Parameters returns the class token and position tables.
func (e *SpatioTemporalClsPositionalEncoding[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	if e.hasCls {
		params = append(params, e.clsToken)
	}
	if e.sepPosEmbed {
		params = append(params, e.posEmbedSpatial, e.posEmbedTemporal)
		if e.hasCls {
			params = append(params, e.posEmbedClass)
		}
	} else {
		params = append(params, e.posEmbed)
	}
	return params
}
