package models

import (
	"fmt"

	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// RoIHead is a detection head conditioned on bounding boxes. It
// consumes backbone features together with a box tensor and produces
// per-box outputs.
type RoIHead[B tensor.Backend] interface {
	// Forward maps (features, boxes) to an output tensor whose first
	// axis indexes boxes.
	Forward(features, boxes *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of the head.
	Parameters() []*nn.Parameter[B]
}

// DetectionConfig configures a DetectionBBoxNetwork.
type DetectionConfig[B tensor.Backend] struct {
	// Backbone precedes the head, e.g. stem + stages. Required.
	Backbone nn.Module[B]

	// Head consumes backbone features and bounding boxes. Required.
	Head RoIHead[B]
}

// DetectionBBoxNetwork is a general purpose model that handles bounding
// boxes as part of its input.
//
// The box tensor is passed through to the head untouched. Its layout is
// a caller contract, not validated here: N x 5 rows of
// (index, x1, y1, x2, y2) for axis-aligned regions, or N x 6 rows of
// (index, ctr_x, ctr_y, width, height, angle_degrees) for rotated ones.
type DetectionBBoxNetwork[B tensor.Backend] struct {
	backbone nn.Module[B]
	head     RoIHead[B]
}

// NewDetectionBBoxNetwork creates a detection network from a backbone
// and a box-conditioned head.
func NewDetectionBBoxNetwork[B tensor.Backend](cfg DetectionConfig[B]) (*DetectionBBoxNetwork[B], error) {
	if cfg.Backbone == nil {
		return nil, fmt.Errorf("NewDetectionBBoxNetwork: %w", ErrMissingBackbone)
	}
	if cfg.Head == nil {
		return nil, fmt.Errorf("NewDetectionBBoxNetwork: %w", ErrMissingHead)
	}

	return &DetectionBBoxNetwork[B]{
		backbone: cfg.Backbone,
		head:     cfg.Head,
	}, nil
}

// Forward runs the backbone over the input, feeds the features and
// boxes to the head, and flattens the head output to two dimensions:
// the first axis (per-box batch) is kept, all remaining axes are merged
// in row-major order. A rank-1 head output of shape (N,) flattens to
// (N, 1).
func (d *DetectionBBoxNetwork[B]) Forward(input, boxes *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	features := d.backbone.Forward(input)
	out := d.head.Forward(features, boxes)
	return out.Flatten2D()
}

// Parameters returns the trainable parameters of backbone and head.
func (d *DetectionBBoxNetwork[B]) Parameters() []*nn.Parameter[B] {
	params := d.backbone.Parameters()
	return append(params, d.head.Parameters()...)
}
