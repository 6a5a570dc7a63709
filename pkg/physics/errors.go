package physics

import (
	"errors"

	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// ErrMissingReference is returned when a required collaborator (a water
// surface, a container) is absent at construction time.
var ErrMissingReference = errors.New("missing reference")

// ErrInvalidParameter is returned for tuning values outside their domain.
var ErrInvalidParameter = validation.ErrInvalidParameter
