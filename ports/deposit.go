package ports

import (
	"context"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

// DepositVerifier confirms that the value-transfer described by a
// challenge actually happened on chain before the challenge may be
// consumed. The shipped implementation is an explicit trusted mode that
// always accepts; a real chain-query verifier plugs in here.
type DepositVerifier interface {
	VerifyDeposit(ctx context.Context, challenge core.ValueChallenge) error
}
