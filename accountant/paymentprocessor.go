package accountant

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// PaymentResult reports one recipient's payout outcome.
type PaymentResult struct {
	Address common.Address
	Amount  *uint256.Int
	Err     error
}

// PaymentProcessor is the external collaborator `distribute` invokes
// (spec.md §6): "process(distributions) → [PaymentResult] idempotent
// per epoch". A concrete implementation talking to a real settlement
// rail is out of this module's scope.
type PaymentProcessor interface {
	Process(ctx context.Context, distributions map[common.Address]*uint256.Int) ([]PaymentResult, error)
}
