package core

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

var (
	ErrPanicked = errors.New("recovered from panic")
	ErrUnknown  = errors.New("unknown")
)

// Guard runs fn and turns a panic into an error carrying the stack of the
// recovery point. Per-task and per-mod work goes through here so a single
// bad resource or mod cannot take the tick loop down.
func Guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pkgerrors.WithStack(fmt.Errorf("%s: %w: %v", name, ErrPanicked, r))
		}
	}()
	return fn()
}
