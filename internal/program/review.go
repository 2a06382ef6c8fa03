package program

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"reviewledger/internal/address"
	"reviewledger/internal/domain"
	"reviewledger/internal/instruction"
	"reviewledger/internal/record"
)

// counterSeed pairs every review with its comment counter.
const counterSeed = "comment"

// addReview creates a review record at derive(owner, title) plus its paired
// comment counter at derive(review, "comment"). All validation happens
// before the first ledger mutation.
//
// Accounts: owner (signer), review slot, storage-allocator, counter slot.
func (p *Processor) addReview(ctx context.Context, accounts []domain.Account, in instruction.ReviewPayload) error {
	it := newAccountIter(accounts)
	initializer, err := it.next()
	if err != nil {
		return err
	}
	reviewAcc, err := it.next()
	if err != nil {
		return err
	}
	if _, err := it.next(); err != nil { // storage-allocator, positional only
		return err
	}
	counterAcc, err := it.next()
	if err != nil {
		return err
	}

	logger := p.log.With().Str("handler", "create_review").Str("title", in.Title).Logger()
	logger.Info().Uint8("rating", in.Rating).Msg("adding review")

	if !initializer.Signer {
		return fmt.Errorf("review owner %s: %w", initializer.Key, domain.ErrMissingSignature)
	}

	expected, bump, err := address.Derive(p.id, initializer.Key.Bytes(), []byte(in.Title))
	if err != nil {
		return err
	}
	if expected != reviewAcc.Key {
		return fmt.Errorf("review slot is %s, derived %s: %w", reviewAcc.Key, expected, domain.ErrAddressMismatch)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("rating %d: %w", in.Rating, domain.ErrInvalidRating)
	}
	if size := record.ReviewSize(in.Title, in.Description); size > record.MaxReviewSize {
		return fmt.Errorf("review serializes to %d bytes, cap is %d: %w", size, record.MaxReviewSize, domain.ErrSizeExceeded)
	}

	err = p.ledger.Create(ctx, domain.CreateParams{
		Address:   reviewAcc.Key,
		Funder:    initializer.Key,
		Owner:     p.id,
		Authority: p.id,
		Size:      record.MaxReviewSize,
		Seeds:     [][]byte{initializer.Key.Bytes(), []byte(in.Title), {bump}},
	})
	if err != nil {
		return fmt.Errorf("allocate review slot %s: %v: %w", reviewAcc.Key, err, domain.ErrAllocationFailed)
	}
	logger.Info().Str("addr", reviewAcc.Key.String()).Msg("review slot created")

	// The slot was just allocated zero-filled, so decoding it yields the
	// zero record; populate every field before writing back.
	slot, err := p.ledger.Read(ctx, reviewAcc.Key)
	if err != nil {
		return err
	}
	rec, err := record.DecodeReview(slot.Data)
	if err != nil {
		return err
	}
	rec.Discriminator = record.ReviewDiscriminator
	rec.Initialized = true
	rec.Reviewer = initializer.Key
	rec.Rating = in.Rating
	rec.Title = in.Title
	rec.Description = in.Description

	data, err := rec.Encode()
	if err != nil {
		return err
	}
	if err := p.ledger.Write(ctx, reviewAcc.Key, data); err != nil {
		return err
	}

	return p.createCounter(ctx, logger, initializer, reviewAcc, counterAcc)
}

// updateReview mutates rating and description in place. The stored title is
// authoritative: re-deriving from it binds the update to the original
// creator, whatever title the instruction carried.
//
// Accounts: owner (signer), review slot.
func (p *Processor) updateReview(ctx context.Context, accounts []domain.Account, in instruction.ReviewPayload) error {
	it := newAccountIter(accounts)
	initializer, err := it.next()
	if err != nil {
		return err
	}
	reviewAcc, err := it.next()
	if err != nil {
		return err
	}

	logger := p.log.With().Str("handler", "update_review").Str("addr", reviewAcc.Key.String()).Logger()
	logger.Info().Msg("updating review")

	slot, err := p.ledger.Read(ctx, reviewAcc.Key)
	if err != nil {
		return err
	}
	if slot.Owner != p.id {
		return fmt.Errorf("review slot owned by %s: %w", slot.Owner, domain.ErrIllegalOwner)
	}
	if !initializer.Signer {
		return fmt.Errorf("review owner %s: %w", initializer.Key, domain.ErrMissingSignature)
	}

	rec, err := record.DecodeReview(slot.Data)
	if err != nil {
		return err
	}
	if !rec.Initialized {
		return fmt.Errorf("review slot %s: %w", reviewAcc.Key, domain.ErrNotInitialized)
	}

	expected, _, err := address.Derive(p.id, initializer.Key.Bytes(), []byte(rec.Title))
	if err != nil {
		return err
	}
	if expected != reviewAcc.Key {
		return fmt.Errorf("signer does not derive %s: %w", reviewAcc.Key, domain.ErrAddressMismatch)
	}

	if in.Rating < 1 || in.Rating > 5 {
		return fmt.Errorf("rating %d: %w", in.Rating, domain.ErrInvalidRating)
	}
	if size := record.ReviewSize(rec.Title, in.Description); size > record.MaxReviewSize {
		return fmt.Errorf("review would serialize to %d bytes, cap is %d: %w", size, record.MaxReviewSize, domain.ErrSizeExceeded)
	}

	rec.Rating = in.Rating
	rec.Description = in.Description

	data, err := rec.Encode()
	if err != nil {
		return err
	}
	return p.ledger.Write(ctx, reviewAcc.Key, data)
}

func (p *Processor) createCounter(ctx context.Context, logger zerolog.Logger, initializer, reviewAcc, counterAcc domain.Account) error {
	expected, bump, err := address.Derive(p.id, reviewAcc.Key.Bytes(), []byte(counterSeed))
	if err != nil {
		return err
	}
	if expected != counterAcc.Key {
		return fmt.Errorf("counter slot is %s, derived %s: %w", counterAcc.Key, expected, domain.ErrAddressMismatch)
	}

	err = p.ledger.Create(ctx, domain.CreateParams{
		Address:   counterAcc.Key,
		Funder:    initializer.Key,
		Owner:     p.id,
		Authority: p.id,
		Size:      uint64(record.CounterSize),
		Seeds:     [][]byte{reviewAcc.Key.Bytes(), []byte(counterSeed), {bump}},
	})
	if err != nil {
		return err
	}

	slot, err := p.ledger.Read(ctx, counterAcc.Key)
	if err != nil {
		return err
	}
	ctr, err := record.DecodeCounter(slot.Data)
	if err != nil {
		return err
	}
	if ctr.Initialized {
		return fmt.Errorf("counter slot %s: %w", counterAcc.Key, domain.ErrAlreadyInitialized)
	}
	ctr.Discriminator = record.CounterDiscriminator
	ctr.Counter = 0
	ctr.Initialized = true

	data, err := ctr.Encode()
	if err != nil {
		return err
	}
	if err := p.ledger.Write(ctx, counterAcc.Key, data); err != nil {
		return err
	}
	logger.Info().Str("addr", counterAcc.Key.String()).Msg("comment counter initialized")
	return nil
}
