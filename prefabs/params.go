package prefabs

import (
	"fmt"

	"github.com/milk9111/side2d0/traversal"
)

// TraversalComponentName is the prefab key holding traversal tuning.
const TraversalComponentName = "traversal"

// DecodeTraversalParams decodes a traversal component body over the
// defaults and validates the result.
func DecodeTraversalParams(raw any) (traversal.Params, error) {
	p, err := DecodeComponentSpecInto(raw, traversal.DefaultParams())
	if err != nil {
		return traversal.Params{}, fmt.Errorf("prefabs: decode traversal: %w", err)
	}
	if err := p.Validate(); err != nil {
		return traversal.Params{}, err
	}
	return p, nil
}

// LoadTraversalParams reads the traversal tuning of a prefab file. A prefab
// without a traversal component gets the defaults.
func LoadTraversalParams(filename string) (traversal.Params, error) {
	spec, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return traversal.Params{}, err
	}
	p, err := DecodeTraversalParams(spec.Components[TraversalComponentName])
	if err != nil {
		return traversal.Params{}, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return p, nil
}
