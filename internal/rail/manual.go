package rail

import "context"

// Manual is the human-attested rail: no remote call. Initiate only records
// intent; finalization is driven entirely by the dual-confirmation calls in
// the settlement engine.
type Manual struct{}

func NewManual() *Manual { return &Manual{} }

func (Manual) Initiate(_ context.Context, _ InitiateRequest) (*InitiateResult, error) {
	return &InitiateResult{RequiresManualConfirmation: true}, nil
}
