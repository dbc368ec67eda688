package renderer

import "errors"

var (
	ErrSceneNotDefined = errors.New("renderer: no scene defined")
	ErrNotPrepared     = errors.New("renderer: scene has not been compiled")
	ErrInvalidOptions  = errors.New("renderer: invalid options")
	ErrInterrupted     = errors.New("renderer: interrupted while rendering")
	ErrClosed          = errors.New("renderer: renderer is closed")
)
