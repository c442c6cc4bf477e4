package app

import "github.com/pkg/errors"

// ErrNoGUI is returned by builds without the ebiten tag.
var ErrNoGUI = errors.New("the window front end requires the ebiten build tag; rebuild with `go build -tags ebiten ./cmd/sandfall`")
