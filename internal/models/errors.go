package models

import "errors"

// Configuration errors returned by model constructors.
var (
	ErrNoBlocks        = errors.New("at least one block is required")
	ErrMissingBackbone = errors.New("backbone module is required")
	ErrMissingHead     = errors.New("detection head is required")
	ErrNoPathways      = errors.New("at least one pathway is required")
)
