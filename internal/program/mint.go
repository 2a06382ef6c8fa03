package program

import (
	"context"
	"fmt"

	"reviewledger/internal/address"
	"reviewledger/internal/domain"
	"reviewledger/internal/token"
)

// Fixed seeds for the one-shot mint bootstrap.
const (
	mintSeed     = "token_mint"
	mintAuthSeed = "token_auth"
)

// mintDecimals is fixed; the mint is bootstrapped with no freeze authority.
const mintDecimals = 9

// initializeMint performs the one-shot token-mint bootstrap: validate every
// collaborator identity, create the mint slot owned by the token
// collaborator, then delegate metadata finalization to it. A second call
// fails on the occupied mint address instead of re-initializing.
//
// Accounts: initializer (signer), mint slot, mint authority,
// storage-allocator, token collaborator, rent accounting.
func (p *Processor) initializeMint(ctx context.Context, accounts []domain.Account) error {
	it := newAccountIter(accounts)
	initializer, err := it.next()
	if err != nil {
		return err
	}
	mintAcc, err := it.next()
	if err != nil {
		return err
	}
	mintAuthAcc, err := it.next()
	if err != nil {
		return err
	}
	allocatorAcc, err := it.next()
	if err != nil {
		return err
	}
	tokenAcc, err := it.next()
	if err != nil {
		return err
	}
	rentAcc, err := it.next()
	if err != nil {
		return err
	}

	logger := p.log.With().Str("handler", "bootstrap_mint").Logger()

	if !initializer.Signer {
		return fmt.Errorf("initializer %s: %w", initializer.Key, domain.ErrMissingSignature)
	}

	mintPDA, bump, err := address.Derive(p.id, []byte(mintSeed))
	if err != nil {
		return err
	}
	authPDA, _, err := address.Derive(p.id, []byte(mintAuthSeed))
	if err != nil {
		return err
	}
	logger.Info().Str("mint", mintPDA.String()).Str("authority", authPDA.String()).Msg("bootstrapping token mint")

	if tokenAcc.Key != domain.TokenProgramID {
		return fmt.Errorf("token collaborator is %s: %w", tokenAcc.Key, domain.ErrIncorrectCollaborator)
	}
	if allocatorAcc.Key != domain.SystemProgramID {
		return fmt.Errorf("storage allocator is %s: %w", allocatorAcc.Key, domain.ErrIncorrectCollaborator)
	}
	if rentAcc.Key != domain.RentSysvarID {
		return fmt.Errorf("rent accounting is %s: %w", rentAcc.Key, domain.ErrIncorrectCollaborator)
	}
	if mintAcc.Key != mintPDA {
		return fmt.Errorf("mint slot is %s, derived %s: %w", mintAcc.Key, mintPDA, domain.ErrAddressMismatch)
	}
	if mintAuthAcc.Key != authPDA {
		return fmt.Errorf("mint authority is %s, derived %s: %w", mintAuthAcc.Key, authPDA, domain.ErrAddressMismatch)
	}

	// The mint slot belongs to the token collaborator, not to this program.
	err = p.ledger.Create(ctx, domain.CreateParams{
		Address:   mintAcc.Key,
		Funder:    initializer.Key,
		Owner:     domain.TokenProgramID,
		Authority: p.id,
		Size:      token.MintSize,
		Seeds:     [][]byte{[]byte(mintSeed), {bump}},
	})
	if err != nil {
		return err
	}

	if err := p.minter.InitializeMint(ctx, mintAcc.Key, mintAuthAcc.Key, mintDecimals); err != nil {
		return err
	}
	logger.Info().Msg("token mint initialized")
	return nil
}
