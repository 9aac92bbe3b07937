// Package treasury settles the accumulated claim fees to the payout
// recipients.
package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/JayWelsh/claim-against-nft/ledger"
)

// Payee delivers payouts. tx is the ledger transaction the distribution runs
// in; payees that keep their books in the ledger write through it and get
// rollback for free.
type Payee interface {
	Pay(ctx context.Context, tx ledger.Tx, recipient common.Address, amount *uint256.Int) error
}

// Reverser is implemented by payees whose payments leave the ledger. When a
// later payment in the same distribution fails, earlier ones are reversed in
// the opposite order.
type Reverser interface {
	Reverse(ctx context.Context, recipient common.Address, amount *uint256.Int) error
}

// PayeeFunc adapts a function to Payee.
type PayeeFunc func(ctx context.Context, tx ledger.Tx, recipient common.Address, amount *uint256.Int) error

// Pay calls f.
func (f PayeeFunc) Pay(ctx context.Context, tx ledger.Tx, recipient common.Address, amount *uint256.Int) error {
	return f(ctx, tx, recipient, amount)
}

// CreditPayee pays by crediting the recipient's account in the ledger. The
// recipients can withdraw their credits out of band. Recipients marked as
// refusing make the payment fail, which models a receiver that rejects
// incoming funds.
type CreditPayee struct {
	mu      sync.RWMutex
	refused map[common.Address]bool
}

var _ Payee = (*CreditPayee)(nil)

// NewCreditPayee creates a payee that accepts every recipient.
func NewCreditPayee() *CreditPayee {
	return &CreditPayee{refused: make(map[common.Address]bool)}
}

// Refuse makes payments to addr fail.
func (p *CreditPayee) Refuse(addr common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refused[addr] = true
}

// Accept lifts a previous Refuse.
func (p *CreditPayee) Accept(addr common.Address) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.refused, addr)
}

// Pay credits amount to recipient inside tx.
func (p *CreditPayee) Pay(_ context.Context, tx ledger.Tx, recipient common.Address, amount *uint256.Int) error {
	p.mu.RLock()
	refused := p.refused[recipient]
	p.mu.RUnlock()
	if refused {
		return fmt.Errorf("%w: %s", ErrRecipientRefused, recipient.Hex())
	}
	return tx.Credit(recipient, amount)
}
