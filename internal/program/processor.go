// Package program is the record-store core: it dispatches decoded
// instructions to the state-transition handlers that create and mutate
// records at derived addresses.
package program

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"reviewledger/internal/adapters/observability"
	"reviewledger/internal/domain"
	"reviewledger/internal/instruction"
)

type Processor struct {
	id     domain.Address
	ledger domain.Ledger
	minter domain.TokenMinter
	log    zerolog.Logger
}

func New(id domain.Address, ledger domain.Ledger, minter domain.TokenMinter, logger zerolog.Logger) *Processor {
	return &Processor{id: id, ledger: ledger, minter: minter, log: logger}
}

// ID is the program's own identity; records it creates carry it as owner.
func (p *Processor) ID() domain.Address { return p.id }

// Process handles one invocation: decode the instruction buffer, route to
// the matching handler with the account list unchanged. The surrounding
// environment provides the all-or-nothing guarantee per invocation; Process
// itself performs no rollback.
func (p *Processor) Process(ctx context.Context, accounts []domain.Account, data []byte) error {
	in, err := instruction.Unpack(data)
	if err != nil {
		observability.ObserveInstruction("unknown", err, 0)
		p.log.Warn().Err(err).Msg("instruction rejected")
		return err
	}

	start := time.Now()
	switch in.Kind {
	case instruction.KindCreateReview:
		err = p.addReview(ctx, accounts, in.Review)
	case instruction.KindUpdateReview:
		err = p.updateReview(ctx, accounts, in.Review)
	case instruction.KindAppendComment:
		err = p.addComment(ctx, accounts, in.Comment.Comment)
	case instruction.KindBootstrapMint:
		err = p.initializeMint(ctx, accounts)
	}
	observability.ObserveInstruction(in.Kind.String(), err, time.Since(start))
	if err != nil {
		p.log.Warn().Str("kind", in.Kind.String()).Err(err).Msg("instruction failed")
	}
	return err
}

// accountIter walks the positional account list; running past its end means
// the client broke the positional contract.
type accountIter struct {
	accounts []domain.Account
	i        int
}

func newAccountIter(accounts []domain.Account) *accountIter {
	return &accountIter{accounts: accounts}
}

func (it *accountIter) next() (domain.Account, error) {
	if it.i >= len(it.accounts) {
		return domain.Account{}, fmt.Errorf("account at position %d missing: %w", it.i, domain.ErrMalformedInstruction)
	}
	a := it.accounts[it.i]
	it.i++
	return a, nil
}
