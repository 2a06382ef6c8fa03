package domain

import "context"

// Ledger is the storage collaborator: addressed, owner-tagged, rent-funded
// byte slots.
//
// Contract:
//   - Create allocates a zero-filled slot of exactly Size bytes, charges
//     RentMinimum(Size) to the funder and fails with ErrAlreadyInitialized
//     when the address is occupied. The zero fill is load-bearing: handlers
//     decode a slot right after creating it.
//   - Read fails with ErrNotInitialized when no slot exists at the address.
//   - Write replaces the slot prefix with data and keeps the remainder
//     zeroed; data longer than the slot fails with ErrSizeExceeded.
type Ledger interface {
	Exists(ctx context.Context, addr Address) (bool, error)
	Create(ctx context.Context, p CreateParams) error
	Read(ctx context.Context, addr Address) (Slot, error)
	Write(ctx context.Context, addr Address, data []byte) error
}

// TokenMinter is the external token collaborator's one capability this core
// consumes: finalizing mint metadata on an already-allocated mint slot.
type TokenMinter interface {
	InitializeMint(ctx context.Context, mint, authority Address, decimals uint8) error
}
