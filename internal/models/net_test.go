package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinet-ml/kinet/internal/backend/cpu"
	"github.com/kinet-ml/kinet/internal/models"
	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

type Backend = *cpu.CPUBackend

// scaleBlock multiplies its input by a fixed factor. Used as a stand-in
// for real stages: scaling does not commute with shifting, so block
// order is observable in the output.
type scaleBlock struct {
	factor float32
}

func (s *scaleBlock) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	return input.MulScalar(s.factor)
}

func (s *scaleBlock) Parameters() []*nn.Parameter[Backend] {
	return nil
}

// shiftBlock adds a fixed offset to its input.
type shiftBlock struct {
	offset float32
}

func (s *shiftBlock) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	return input.AddScalar(s.offset)
}

func (s *shiftBlock) Parameters() []*nn.Parameter[Backend] {
	return nil
}

// initTrackingBlock counts InitWeights calls and remembers whether the
// first Forward happened before initialization.
type initTrackingBlock struct {
	initCalls         int
	forwardBeforeInit bool
}

func (b *initTrackingBlock) Forward(input *tensor.Tensor[float32, Backend]) *tensor.Tensor[float32, Backend] {
	if b.initCalls == 0 {
		b.forwardBeforeInit = true
	}
	return input
}

func (b *initTrackingBlock) Parameters() []*nn.Parameter[Backend] {
	return nil
}

func (b *initTrackingBlock) InitWeights() {
	b.initCalls++
}

func TestNewNet_NoBlocks(t *testing.T) {
	_, err := models.NewNet(models.NetConfig[Backend]{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoBlocks))
}

func TestNet_ForwardComposesInOrder(t *testing.T) {
	backend := cpu.New()

	shift := &shiftBlock{offset: 1}
	scale := &scaleBlock{factor: 3}

	shiftThenScale, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{shift, scale},
	})
	require.NoError(t, err)

	scaleThenShift, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{scale, shift},
	})
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	// (2 + 1) * 3 = 9 versus 2 * 3 + 1 = 7.
	assert.InDelta(t, 9.0, float64(shiftThenScale.Forward(input).Item()), 1e-6)
	assert.InDelta(t, 7.0, float64(scaleThenShift.Forward(input).Item()), 1e-6)
}

func TestNet_ForwardMatchesManualFold(t *testing.T) {
	backend := cpu.New()

	blocks := []nn.Module[Backend]{
		&shiftBlock{offset: 2},
		&scaleBlock{factor: -1},
		&shiftBlock{offset: 0.5},
	}

	net, err := models.NewNet(models.NetConfig[Backend]{Blocks: blocks})
	require.NoError(t, err)

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	want := input
	for _, block := range blocks {
		want = block.Forward(want)
	}
	got := net.Forward(input)

	require.True(t, got.Shape().Equal(want.Shape()))
	assert.Equal(t, want.Data(), got.Data())
}

func TestNet_DefaultInitRunsOnceBeforeForward(t *testing.T) {
	backend := cpu.New()

	block := &initTrackingBlock{}
	net, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{block, &scaleBlock{factor: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, block.initCalls, "constructor should initialize weights")

	input, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	net.Forward(input)
	net.Forward(input)

	assert.Equal(t, 1, block.initCalls, "Forward must not re-initialize weights")
	assert.False(t, block.forwardBeforeInit, "initialization must precede the first Forward")
}

func TestNet_CustomInitReplacesDefault(t *testing.T) {
	block := &initTrackingBlock{}

	customCalls := 0
	_, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{block},
		Init: func(blocks []nn.Module[Backend]) {
			customCalls++
			assert.Len(t, blocks, 1)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, customCalls)
	assert.Equal(t, 0, block.initCalls, "custom init replaces the default pass entirely")
}

func TestNet_LenAndBlock(t *testing.T) {
	first := &shiftBlock{offset: 1}
	second := &scaleBlock{factor: 2}

	net, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{first, second},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, net.Len())
	assert.Same(t, first, net.Block(0))
	assert.Same(t, second, net.Block(1))

	assert.Panics(t, func() { net.Block(2) })
	assert.Panics(t, func() { net.Block(-1) })
}

func TestNet_Parameters(t *testing.T) {
	backend := cpu.New()

	net, err := models.NewNet(models.NetConfig[Backend]{
		Blocks: []nn.Module[Backend]{
			nn.NewLinear(4, 3, backend),
			&scaleBlock{factor: 2},
			nn.NewLinear(3, 2, backend),
		},
	})
	require.NoError(t, err)

	// Two linear layers, each with weight and bias.
	assert.Len(t, net.Parameters(), 4)
}
