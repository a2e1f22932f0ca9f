package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinet-ml/kinet/internal/backend/cpu"
	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

func TestPositionalEncoding_TableValues(t *testing.T) {
	backend := cpu.New()
	enc := nn.NewPositionalEncoding(4, 3, backend)

	// A zero input exposes the raw table.
	input := tensor.Zeros[float32](tensor.Shape{1, 2, 4}, backend)
	out := enc.Forward(input)

	require.True(t, out.Shape().Equal(tensor.Shape{1, 2, 4}))
	data := out.Data()

	// Position 0: sin(0)=0, cos(0)=1 at every frequency.
	assert.InDelta(t, 0, float64(data[0]), 1e-6)
	assert.InDelta(t, 1, float64(data[1]), 1e-6)
	assert.InDelta(t, 0, float64(data[2]), 1e-6)
	assert.InDelta(t, 1, float64(data[3]), 1e-6)

	// Position 1: frequencies 1 and 10000^(-2/4) = 0.01.
	assert.InDelta(t, math.Sin(1), float64(data[4]), 1e-6)
	assert.InDelta(t, math.Cos(1), float64(data[5]), 1e-6)
	assert.InDelta(t, math.Sin(0.01), float64(data[6]), 1e-6)
	assert.InDelta(t, math.Cos(0.01), float64(data[7]), 1e-6)

	assert.Empty(t, enc.Parameters())
}

func TestPositionalEncoding_BroadcastsOverBatch(t *testing.T) {
	backend := cpu.New()
	enc := nn.NewPositionalEncoding(4, 8, backend)

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 4}, backend)
	out := enc.Forward(input)

	require.True(t, out.Shape().Equal(tensor.Shape{2, 3, 4}))
	data := out.Data()
	per := 3 * 4
	for i := 0; i < per; i++ {
		assert.Equal(t, data[i], data[per+i], "batch entries must share the table")
	}
}

func TestPositionalEncoding_ForwardValidation(t *testing.T) {
	backend := cpu.New()
	enc := nn.NewPositionalEncoding(4, 2, backend)

	assert.Panics(t, func() {
		enc.Forward(tensor.Zeros[float32](tensor.Shape{1, 3, 4}, backend))
	}, "sequence longer than the table")

	assert.Panics(t, func() {
		enc.Forward(tensor.Zeros[float32](tensor.Shape{1, 2, 8}, backend))
	}, "wrong embedding dimension")

	assert.Panics(t, func() {
		enc.Forward(tensor.Zeros[float32](tensor.Shape{2, 4}, backend))
	}, "wrong rank")
}

func TestSpatioTemporalClsPositionalEncoding_JointWithCls(t *testing.T) {
	backend := cpu.New()
	enc := nn.NewSpatioTemporalClsPositionalEncoding(4, [3]int{1, 2, 2}, false, true, backend)

	input, err := tensor.FromSlice([]float32{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
		4, 4, 4, 4,
	}, tensor.Shape{1, 4, 4}, backend)
	require.NoError(t, err)

	out := enc.Forward(input)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 5, 4}), "class token prepended")

	data := out.Data()
	// Zero-initialized class token and table: first row is zero, the
	// rest pass the input through unchanged.
	for c := 0; c < 4; c++ {
		assert.Zero(t, data[c])
	}
	assert.Equal(t, float32(1), data[4])
	assert.Equal(t, float32(4), data[4*4])

	// cls_token and pos_embed.
	assert.Len(t, enc.Parameters(), 2)
}

func TestSpatioTemporalClsPositionalEncoding_SeparateTables(t *testing.T) {
	backend := cpu.New()
	// 2 frames of a 1x2 patch grid, 2 channels, no class token.
	enc := nn.NewSpatioTemporalClsPositionalEncoding(2, [3]int{2, 1, 2}, true, false, backend)

	params := enc.Parameters()
	require.Len(t, params, 2)
	spatial, temporal := params[0], params[1]
	require.Equal(t, "pos_embed_spatial", spatial.Name())
	require.Equal(t, "pos_embed_temporal", temporal.Name())

	copy(spatial.Tensor().Data(), []float32{1, 2, 3, 4})
	copy(temporal.Tensor().Data(), []float32{10, 20, 30, 40})

	input := tensor.Zeros[float32](tensor.Shape{1, 4, 2}, backend)
	out := enc.Forward(input)

	// Patch (t, s) receives spatial[s] + temporal[t].
	want := []float32{11, 22, 13, 24, 31, 42, 33, 44}
	assert.Equal(t, want, out.Data())
}

func TestSpatioTemporalClsPositionalEncoding_SeparateWithClsParams(t *testing.T) {
	backend := cpu.New()
	enc := nn.NewSpatioTemporalClsPositionalEncoding(4, [3]int{2, 2, 2}, true, true, backend)

	// cls_token, spatial, temporal, class tables.
	assert.Len(t, enc.Parameters(), 4)

	input := tensor.Zeros[float32](tensor.Shape{2, 8, 4}, backend)
	out := enc.Forward(input)
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 9, 4}))
}

func TestSinCosPosEmbed1D(t *testing.T) {
	backend := cpu.New()
	emb := nn.SinCosPosEmbed1D(4, []float32{0, 1}, backend)

	require.True(t, emb.Shape().Equal(tensor.Shape{2, 4}))
	data := emb.Data()

	// Sines fill the first half of a row, cosines the second.
	assert.InDelta(t, 0, float64(data[0]), 1e-6)
	assert.InDelta(t, 0, float64(data[1]), 1e-6)
	assert.InDelta(t, 1, float64(data[2]), 1e-6)
	assert.InDelta(t, 1, float64(data[3]), 1e-6)

	assert.InDelta(t, math.Sin(1), float64(data[4]), 1e-6)
	assert.InDelta(t, math.Sin(0.01), float64(data[5]), 1e-6)
	assert.InDelta(t, math.Cos(1), float64(data[6]), 1e-6)
	assert.InDelta(t, math.Cos(0.01), float64(data[7]), 1e-6)

	assert.Panics(t, func() { nn.SinCosPosEmbed1D(3, []float32{0}, backend) })
}

func TestSinCosPosEmbed2D(t *testing.T) {
	backend := cpu.New()
	emb := nn.SinCosPosEmbed2D(8, 2, false, backend)
	require.True(t, emb.Shape().Equal(tensor.Shape{4, 8}))

	data := emb.Data()
	// Patch (row 0, col 0): both halves are the position-0 embedding.
	want0 := []float64{0, 0, 1, 1, 0, 0, 1, 1}
	for c, w := range want0 {
		assert.InDelta(t, w, float64(data[c]), 1e-6)
	}
	// Patch (row 0, col 1): column embedding of 1, row embedding of 0.
	row := data[8:]
	assert.InDelta(t, math.Sin(1), float64(row[0]), 1e-6)
	assert.InDelta(t, math.Sin(0.01), float64(row[1]), 1e-6)
	assert.InDelta(t, math.Cos(1), float64(row[2]), 1e-6)
	assert.InDelta(t, 0, float64(row[4]), 1e-6)
	assert.InDelta(t, 1, float64(row[6]), 1e-6)
}

func TestSinCosPosEmbed2D_ClsRow(t *testing.T) {
	backend := cpu.New()
	emb := nn.SinCosPosEmbed2D(8, 2, true, backend)

	require.True(t, emb.Shape().Equal(tensor.Shape{5, 8}))
	for c := 0; c < 8; c++ {
		assert.Zero(t, emb.Data()[c], "class row must be zero")
	}
}

func TestSinCosPosEmbed3D(t *testing.T) {
	backend := cpu.New()
	emb := nn.SinCosPosEmbed3D(16, 2, 2, true, backend)

	// 1 class row + 2 frames x 4 spatial patches.
	require.True(t, emb.Shape().Equal(tensor.Shape{9, 16}))

	data := emb.Data()
	for c := 0; c < 16; c++ {
		assert.Zero(t, data[c], "class row must be zero")
	}

	// First patch row (t=0, s=0): the temporal quarter is the position-0
	// embedding of dimension 4.
	row := data[16:]
	assert.InDelta(t, 0, float64(row[0]), 1e-6)
	assert.InDelta(t, 0, float64(row[1]), 1e-6)
	assert.InDelta(t, 1, float64(row[2]), 1e-6)
	assert.InDelta(t, 1, float64(row[3]), 1e-6)

	// Spatial rows repeat every frame: (t=0, s=0) and (t=1, s=0) share
	// the spatial three quarters.
	rowT1 := data[16*(1+4):]
	for c := 4; c < 16; c++ {
		assert.InDelta(t, float64(row[c]), float64(rowT1[c]), 1e-6)
	}

	assert.Panics(t, func() { nn.SinCosPosEmbed3D(10, 2, 2, false, backend) })
}
