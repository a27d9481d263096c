package rail

import (
	"context"
	"fmt"
	"time"
)

// Wallet is the automated-instant internal rail: initiate synchronously
// succeeds and there is no confirm phase.
type Wallet struct {
	now func() time.Time
}

func NewWallet() *Wallet { return &Wallet{now: time.Now} }

func (w *Wallet) Initiate(_ context.Context, _ InitiateRequest) (*InitiateResult, error) {
	return &InitiateResult{
		TransactionID: fmt.Sprintf("internal_%d", w.now().UnixMilli()),
	}, nil
}
