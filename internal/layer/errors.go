package layer

import (
	"errors"
	"fmt"
)

// ErrConfig is the root of every configuration error. Any error returned by
// Validate or Load satisfies errors.Is(err, ErrConfig).
var ErrConfig = errors.New("invalid layer configuration")

// Sentinel errors for layer validation. Each wraps ErrConfig.
var (
	// ErrNoLayersFile indicates the layers file does not exist.
	ErrNoLayersFile = fmt.Errorf("%w: layers file not found", ErrConfig)
	// ErrNoLayers indicates the configuration declares no layers.
	ErrNoLayers = fmt.Errorf("%w: no layers configured", ErrConfig)
	// ErrMissingField indicates a required field (name, directory) is empty.
	ErrMissingField = fmt.Errorf("%w: required field missing", ErrConfig)
	// ErrDuplicate indicates two layers share an id or a name.
	ErrDuplicate = fmt.Errorf("%w: duplicate layer", ErrConfig)
	// ErrMissingAssets indicates a layer directory could not be listed.
	ErrMissingAssets = fmt.Errorf("%w: missing asset directory", ErrConfig)
	// ErrEmptyLayer indicates a layer directory has no traits at all.
	ErrEmptyLayer = fmt.Errorf("%w: layer has no traits", ErrConfig)
	// ErrWeightCount indicates an explicit weight array has the wrong length.
	ErrWeightCount = fmt.Errorf("%w: weight count mismatch", ErrConfig)
	// ErrInvalidWeights indicates an unrecognized weight mode or unusable values.
	ErrInvalidWeights = fmt.Errorf("%w: invalid rarity weight specification", ErrConfig)
	// ErrUnknownLink indicates a layer links to a name no layer has.
	ErrUnknownLink = fmt.Errorf("%w: linked layer not found", ErrConfig)
	// ErrLinkOrder indicates a layer links to a layer configured after it.
	ErrLinkOrder = fmt.Errorf("%w: linked layer must be configured earlier", ErrConfig)
	// ErrOptionalBase indicates the first layer is optional. The first layer
	// is the opaque background of every composite and must always be present.
	ErrOptionalBase = fmt.Errorf("%w: first layer must be required", ErrConfig)
)

// ValidationError records a validation problem with layer context.
type ValidationError struct {
	LayerID   int
	LayerName string
	Field     string
	Err       error
}

// Error returns a human-readable string including the layer identity.
func (e *ValidationError) Error() string {
	if e.LayerName != "" {
		return fmt.Sprintf("layer %d (%s): %s", e.LayerID, e.LayerName, e.Err)
	}
	return fmt.Sprintf("layer %d: %s", e.LayerID, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Problems is the full list of validation errors found in one pass. It
// unwraps to every entry, so errors.Is matches any contained sentinel.
type Problems []*ValidationError

// Error summarizes the problem list.
func (p Problems) Error() string {
	switch len(p) {
	case 0:
		return "no problems"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", p[0].Error(), len(p)-1)
}

// Unwrap exposes every contained error to errors.Is/As.
func (p Problems) Unwrap() []error {
	out := make([]error, len(p))
	for i, e := range p {
		out[i] = e
	}
	return out
}
