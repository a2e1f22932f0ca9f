package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinet-ml/kinet/internal/backend/cpu"
	"github.com/kinet-ml/kinet/internal/models"
	"github.com/kinet-ml/kinet/internal/tensor"
)

func TestSumFusion(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{10, 20, 30, 40}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	f := models.NewSumFusion[Backend]()
	out := f.Fuse([]*tensor.Tensor[float32, Backend]{a, b})

	assert.Equal(t, []float32{11, 22, 33, 44}, out.Data())
	assert.Empty(t, f.Parameters())

	assert.Panics(t, func() { f.Fuse(nil) })
}

func TestConcatFusion(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	f := models.NewConcatFusion[Backend](1)
	out := f.Fuse([]*tensor.Tensor[float32, Backend]{a, b})

	require.True(t, out.Shape().Equal(tensor.Shape{2, 4}))
	assert.Equal(t, []float32{1, 2, 5, 6, 3, 4, 7, 8}, out.Data())
}

func TestFusion_AbsentPathwayPanics(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	inputs := []*tensor.Tensor[float32, Backend]{a, nil}

	assert.Panics(t, func() { models.NewSumFusion[Backend]().Fuse(inputs) })
	assert.Panics(t, func() { models.NewConcatFusion[Backend](0).Fuse(inputs) })
}
