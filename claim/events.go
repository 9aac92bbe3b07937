package claim

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/payout"
	"github.com/JayWelsh/claim-against-nft/token"
)

// Event bus topics. Handlers take the matching event struct by value.
const (
	TopicClaimBatch      = "claim:batch"
	TopicSchemeUpdated   = "payout:scheme_updated"
	TopicFeesDistributed = "fees:distributed"
)

// ClaimEvent is published once per committed claim batch.
type ClaimEvent struct {
	BatchID  uuid.UUID
	Claimant common.Address
	TokenIDs []token.ID
	Payment  *uint256.Int
	At       time.Time
}

// SchemeUpdatedEvent is published after the payout scheme is replaced.
type SchemeUpdatedEvent struct {
	UpdatedBy common.Address
	Scheme    payout.Scheme
	At        time.Time
}

// DistributedEvent is published after a successful fee distribution.
type DistributedEvent struct {
	DistributionID uuid.UUID
	Caller         common.Address
	Payouts        []payout.Payout
	Distributed    *uint256.Int
	Remainder      *uint256.Int
	At             time.Time
}
