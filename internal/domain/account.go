package domain

// Account is one entry of the positional account list passed with an
// invocation. Order is part of the interface; the environment has already
// verified the Signer flags cryptographically.
type Account struct {
	Key      Address
	Signer   bool
	Writable bool
}

// Slot is the persisted state of one addressed byte-array.
type Slot struct {
	Owner    Address
	Lamports uint64
	Data     []byte
}

// CreateParams describes a slot allocation. Seeds must be the derivation
// seeds of Address under Authority with the one-byte bump appended; the
// ledger verifies them before allocating, so only a holder of the right
// seed tuple can claim a derived address.
type CreateParams struct {
	Address   Address
	Funder    Address
	Owner     Address
	Authority Address
	Size      uint64
	Seeds     [][]byte
}

// Rent parameters, matching the environment's defaults: a slot must carry
// two years of rent for (128 + size) bytes at 3480 lamports per byte-year.
const (
	lamportsPerByteYear = 3480
	rentExemptYears     = 2
	slotOverheadBytes   = 128
)

// RentMinimum returns the lamports a slot of the given size must be funded
// with at creation.
func RentMinimum(size uint64) uint64 {
	return (slotOverheadBytes + size) * lamportsPerByteYear * rentExemptYears
}
