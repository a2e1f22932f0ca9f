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

func TestNewMultiPathwayWithFuse_NoPathways(t *testing.T) {
	_, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoPathways))
}

func TestMultiPathway_InPlacePassThrough(t *testing.T) {
	backend := cpu.New()

	// Second pathway has no block of its own.
	m, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{
		Blocks: []nn.Module[Backend]{&scaleBlock{factor: 2}, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumPathways())

	slow, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	fast, err := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	inputs := []*tensor.Tensor[float32, Backend]{slow, fast}
	out := m.Forward(inputs)

	require.False(t, out.IsFused())
	require.Len(t, out.Pathways, 2)

	assert.Equal(t, []float32{2, 4}, out.Pathways[0].Data())
	// The block-less pathway keeps its original input.
	assert.Same(t, fast, out.Pathways[1])
	// In-place mode writes outputs back into the caller's slice.
	assert.Same(t, inputs[0], out.Pathways[0])
}

func TestMultiPathway_NotInPlaceLeavesInputsAndNilSlots(t *testing.T) {
	backend := cpu.New()

	m, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{
		Blocks:  []nn.Module[Backend]{&scaleBlock{factor: 2}, nil},
		InPlace: boolPtr(false),
	})
	require.NoError(t, err)

	slow, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	fast, err := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	inputs := []*tensor.Tensor[float32, Backend]{slow, fast}
	out := m.Forward(inputs)

	require.Len(t, out.Pathways, 2)
	assert.Equal(t, []float32{2, 4}, out.Pathways[0].Data())
	// Without in-place mode there is no pass-through: the slot is empty.
	assert.Nil(t, out.Pathways[1])
	// The input slice is untouched.
	assert.Same(t, slow, inputs[0])
	assert.Same(t, fast, inputs[1])
	assert.Equal(t, []float32{1, 2}, slow.Data())
}

func TestMultiPathway_FusionReceivesPathwayOutputs(t *testing.T) {
	backend := cpu.New()

	m, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{
		Blocks: []nn.Module[Backend]{&scaleBlock{factor: 2}, &scaleBlock{factor: 10}},
		Fusion: models.NewSumFusion[Backend](),
	})
	require.NoError(t, err)

	a, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	out := m.Forward([]*tensor.Tensor[float32, Backend]{a, b})

	require.True(t, out.IsFused())
	assert.Nil(t, out.Pathways)
	// 2*a + 10*b, element-wise.
	assert.Equal(t, []float32{32, 44}, out.Fused.Data())
}

func TestMultiPathway_ForwardLengthMismatchPanics(t *testing.T) {
	backend := cpu.New()

	m, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{
		Blocks: []nn.Module[Backend]{&scaleBlock{factor: 2}, &scaleBlock{factor: 3}},
	})
	require.NoError(t, err)

	x, err := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	assert.Panics(t, func() {
		m.Forward([]*tensor.Tensor[float32, Backend]{x})
	})
}

func TestMultiPathway_Parameters(t *testing.T) {
	backend := cpu.New()

	m, err := models.NewMultiPathwayWithFuse(models.MultiPathwayConfig[Backend]{
		Blocks: []nn.Module[Backend]{nn.NewLinear(4, 4, backend), nil},
		Fusion: models.NewSumFusion[Backend](),
	})
	require.NoError(t, err)

	// One linear pathway with weight and bias; nil pathway and sum
	// fusion contribute nothing.
	assert.Len(t, m.Parameters(), 2)
}

func boolPtr(b bool) *bool {
	return &b
}
