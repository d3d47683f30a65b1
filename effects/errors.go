package effects

import (
	"errors"

	effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"
)

// ErrNoEffectHandler is wrapped by the panic raised when an effect is
// performed without a registered handler.
var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

// ErrHandlerClosed is returned when a resumable effect is performed after its
// handler has been torn down.
var ErrHandlerClosed = errors.New("effect handler closed")
