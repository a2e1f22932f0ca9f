package tensor_test

import (
	"testing"

	"github.com/kinet-ml/kinet/internal/backend/cpu"
	"github.com/kinet-ml/kinet/internal/tensor"
)

type Backend = *cpu.CPUBackend

func TestFromSlice(t *testing.T) {
	backend := cpu.New()

	data := []float32{1, 2, 3, 4, 5, 6}
	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice returned %v", err)
	}

	if !x.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", x.Shape())
	}
	if x.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %f, want 6", x.At(1, 2))
	}

	// Element count mismatch fails.
	if _, err := tensor.FromSlice(data, tensor.Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice should reject mismatched element counts")
	}
}

func TestTensor_SetAndClone(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	x.Set(7, 0, 1)

	clone := x.Clone()
	clone.Set(9, 0, 1)

	if x.At(0, 1) != 7 {
		t.Errorf("Clone should not share memory: original At(0, 1) = %f, want 7", x.At(0, 1))
	}
	if clone.At(0, 1) != 9 {
		t.Errorf("clone At(0, 1) = %f, want 9", clone.At(0, 1))
	}
}

func TestTensor_Reshape(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	r := x.Reshape(3, 2)

	if !r.Shape().Equal(tensor.Shape{3, 2}) {
		t.Errorf("Reshape shape = %v, want [3 2]", r.Shape())
	}
	// Row-major order is preserved.
	if r.At(2, 1) != 6 {
		t.Errorf("At(2, 1) = %f, want 6", r.At(2, 1))
	}

	defer func() {
		if recover() == nil {
			t.Error("Reshape to a different element count should panic")
		}
	}()
	x.Reshape(4, 2)
}

func TestTensor_Flatten2D(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, tensor.Shape{2, 2, 3}, backend)
	f := x.Flatten2D()

	if !f.Shape().Equal(tensor.Shape{2, 6}) {
		t.Errorf("Flatten2D shape = %v, want [2 6]", f.Shape())
	}
	// Values keep their row-major order within each leading slot.
	want := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	for i, w := range want {
		if f.Data()[i] != w {
			t.Errorf("Flatten2D data[%d] = %f, want %f", i, f.Data()[i], w)
		}
	}
}

func TestTensor_Flatten2D_Rank1(t *testing.T) {
	backend := cpu.New()

	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
	f := x.Flatten2D()

	if !f.Shape().Equal(tensor.Shape{3, 1}) {
		t.Errorf("Flatten2D of rank-1 tensor shape = %v, want [3 1]", f.Shape())
	}
}

func TestTensor_Flatten2D_ScalarPanics(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Flatten2D of a scalar should panic")
		}
	}()
	x.Flatten2D()
}

func TestCat(t *testing.T) {
	backend := cpu.New()

	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, backend)

	c := tensor.Cat([]*tensor.Tensor[float32, Backend]{a, b}, 1)
	if !c.Shape().Equal(tensor.Shape{2, 4}) {
		t.Fatalf("Cat shape = %v, want [2 4]", c.Shape())
	}

	want := []float32{1, 2, 5, 6, 3, 4, 7, 8}
	for i, w := range want {
		if c.Data()[i] != w {
			t.Errorf("Cat data[%d] = %f, want %f", i, c.Data()[i], w)
		}
	}
}
