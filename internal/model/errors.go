package model

import "github.com/rotisserie/eris"

// ErrInvalidInput marks malformed or wrong-shaped caller input. Engines
// reject such input before any rule runs; no partial output is produced.
// Check with eris.Is(err, model.ErrInvalidInput).
var ErrInvalidInput = eris.New("invalid input")

// ErrNotFound marks a lookup miss in the persistence layer.
var ErrNotFound = eris.New("not found")
