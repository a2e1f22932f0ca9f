// Copyright 2025 Kinet ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models provides composition containers for assembling video
// recognition networks out of pre-built blocks.
//
// # Overview
//
// The containers define execution order only; the blocks they wrap are
// opaque nn.Module values supplied by the caller:
//   - Net: runs blocks sequentially over a single tensor
//   - DetectionBBoxNetwork: backbone plus box-conditioned detection head
//   - MultiPathwayWithFuse: N parallel pathways with an optional fusion step
//   - SumFusion, ConcatFusion: ready-made fusion stages
//
// # Basic Usage
//
//	backend := cpu.New()
//
//	net, err := models.NewNet(models.NetConfig[*cpu.Backend]{
//	    Blocks: []nn.Module[*cpu.Backend]{stem, stage1, stage2, head},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	output := net.Forward(input)
package models

import (
	"github.com/kinet-ml/kinet/internal/models"
	"github.com/kinet-ml/kinet/internal/nn"
	"github.com/kinet-ml/kinet/internal/tensor"
)

// Configuration errors returned by model constructors.
var (
	ErrNoBlocks        = models.ErrNoBlocks
	ErrMissingBackbone = models.ErrMissingBackbone
	ErrMissingHead     = models.ErrMissingHead
	ErrNoPathways      = models.ErrNoPathways
)

// WeightInitializer is implemented by blocks that know how to
// re-initialize their own weights.
type WeightInitializer = models.WeightInitializer

// InitFunc is a model-level weight initialization pass.
type InitFunc[B tensor.Backend] = models.InitFunc[B]

// DefaultInit re-initializes every block implementing WeightInitializer.
func DefaultInit[B tensor.Backend](blocks []nn.Module[B]) {
	models.DefaultInit(blocks)
}

// Net chains a list of blocks into a single network.
type Net[B tensor.Backend] = models.Net[B]

// NetConfig configures a Net.
type NetConfig[B tensor.Backend] = models.NetConfig[B]

// NewNet creates a Net from the configured blocks and runs the weight
// initialization pass once before returning.
func NewNet[B tensor.Backend](cfg NetConfig[B]) (*Net[B], error) {
	return models.NewNet(cfg)
}

// RoIHead is a detection head conditioned on bounding boxes.
type RoIHead[B tensor.Backend] = models.RoIHead[B]

// DetectionBBoxNetwork handles bounding boxes as part of its input.
type DetectionBBoxNetwork[B tensor.Backend] = models.DetectionBBoxNetwork[B]

// DetectionConfig configures a DetectionBBoxNetwork.
type DetectionConfig[B tensor.Backend] = models.DetectionConfig[B]

// NewDetectionBBoxNetwork creates a detection network from a backbone
// and a box-conditioned head.
func NewDetectionBBoxNetwork[B tensor.Backend](cfg DetectionConfig[B]) (*DetectionBBoxNetwork[B], error) {
	return models.NewDetectionBBoxNetwork(cfg)
}

// Fusion merges the outputs of multiple pathways into a single tensor.
type Fusion[B tensor.Backend] = models.Fusion[B]

// MultiPathwayWithFuse runs N parallel pathways with optional fusion.
type MultiPathwayWithFuse[B tensor.Backend] = models.MultiPathwayWithFuse[B]

// MultiPathwayConfig configures a MultiPathwayWithFuse.
type MultiPathwayConfig[B tensor.Backend] = models.MultiPathwayConfig[B]

// PathwayOutput is the result of MultiPathwayWithFuse.Forward.
type PathwayOutput[B tensor.Backend] = models.PathwayOutput[B]

// NewMultiPathwayWithFuse creates a multi-pathway container from the
// configured per-pathway blocks.
func NewMultiPathwayWithFuse[B tensor.Backend](cfg MultiPathwayConfig[B]) (*MultiPathwayWithFuse[B], error) {
	return models.NewMultiPathwayWithFuse(cfg)
}

// SumFusion merges pathways by element-wise addition.
type SumFusion[B tensor.Backend] = models.SumFusion[B]

// NewSumFusion creates a sum fusion stage.
func NewSumFusion[B tensor.Backend]() *SumFusion[B] {
	return models.NewSumFusion[B]()
}

// ConcatFusion merges pathways by concatenation along a fixed dimension.
type ConcatFusion[B tensor.Backend] = models.ConcatFusion[B]

// NewConcatFusion creates a concatenation fusion stage along dim.
func NewConcatFusion[B tensor.Backend](dim int) *ConcatFusion[B] {
	return models.NewConcatFusion[B](dim)
}

// Bool returns a pointer to b, for use with MultiPathwayConfig.InPlace.
func Bool(b bool) *bool {
	return &b
}
