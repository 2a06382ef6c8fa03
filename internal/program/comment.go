package program

import (
	"context"
	"encoding/binary"
	"fmt"

	"reviewledger/internal/address"
	"reviewledger/internal/domain"
	"reviewledger/internal/record"
)

// addComment appends a comment record at derive(review, counter). The
// comment is written before the counter advances; two appends racing on the
// same counter value resolve to one winner, the loser fails on the occupied
// comment address and must re-read the counter before retrying.
//
// Accounts: commenter (signer), review slot (read-only), counter slot,
// comment slot, storage-allocator.
func (p *Processor) addComment(ctx context.Context, accounts []domain.Account, comment string) error {
	it := newAccountIter(accounts)
	commenter, err := it.next()
	if err != nil {
		return err
	}
	reviewAcc, err := it.next()
	if err != nil {
		return err
	}
	counterAcc, err := it.next()
	if err != nil {
		return err
	}
	commentAcc, err := it.next()
	if err != nil {
		return err
	}
	if _, err := it.next(); err != nil { // storage-allocator, positional only
		return err
	}

	logger := p.log.With().Str("handler", "append_comment").Str("review", reviewAcc.Key.String()).Logger()
	logger.Info().Msg("adding comment")

	if !commenter.Signer {
		return fmt.Errorf("commenter %s: %w", commenter.Key, domain.ErrMissingSignature)
	}

	counterSlot, err := p.ledger.Read(ctx, counterAcc.Key)
	if err != nil {
		return err
	}
	ctr, err := record.DecodeCounter(counterSlot.Data)
	if err != nil {
		return err
	}
	if !ctr.Initialized {
		return fmt.Errorf("counter slot %s: %w", counterAcc.Key, domain.ErrNotInitialized)
	}

	// The current counter value is this comment's sequence number.
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], ctr.Counter)

	expected, bump, err := address.Derive(p.id, reviewAcc.Key.Bytes(), seq[:])
	if err != nil {
		return err
	}
	if expected != commentAcc.Key {
		return fmt.Errorf("comment slot is %s, derived %s for seq %d: %w",
			commentAcc.Key, expected, ctr.Counter, domain.ErrAddressMismatch)
	}

	size := record.CommentSize(comment)
	if size > record.MaxCommentSize {
		return fmt.Errorf("comment serializes to %d bytes, cap is %d: %w", size, record.MaxCommentSize, domain.ErrSizeExceeded)
	}

	err = p.ledger.Create(ctx, domain.CreateParams{
		Address:   commentAcc.Key,
		Funder:    commenter.Key,
		Owner:     p.id,
		Authority: p.id,
		Size:      uint64(size),
		Seeds:     [][]byte{reviewAcc.Key.Bytes(), seq[:], {bump}},
	})
	if err != nil {
		return err
	}

	slot, err := p.ledger.Read(ctx, commentAcc.Key)
	if err != nil {
		return err
	}
	rec, err := record.DecodeComment(slot.Data)
	if err != nil {
		return err
	}
	if rec.Initialized {
		// stale or reused address slipped past the create
		return fmt.Errorf("comment slot %s: %w", commentAcc.Key, domain.ErrAlreadyInitialized)
	}
	rec.Discriminator = record.CommentDiscriminator
	rec.Review = reviewAcc.Key
	rec.Commenter = commenter.Key
	rec.Comment = comment
	rec.Initialized = true

	data, err := rec.Encode()
	if err != nil {
		return err
	}
	if err := p.ledger.Write(ctx, commentAcc.Key, data); err != nil {
		return err
	}

	// advance the sequence by exactly one
	ctr.Counter++
	ctrData, err := ctr.Encode()
	if err != nil {
		return err
	}
	if err := p.ledger.Write(ctx, counterAcc.Key, ctrData); err != nil {
		return err
	}
	logger.Info().Uint64("seq", ctr.Counter-1).Str("addr", commentAcc.Key.String()).Msg("comment recorded")
	return nil
}
