package domain

import "errors"

// Error taxonomy surfaced by the program core. Every invocation reports
// exactly one of these; handlers wrap them with context via fmt.Errorf and
// callers match with errors.Is.
var (
	ErrMissingSignature      = errors.New("missing required signature")
	ErrAddressMismatch       = errors.New("derived address does not match the address passed in")
	ErrSizeExceeded          = errors.New("serialized data exceeds max length")
	ErrInvalidRating         = errors.New("rating greater than 5 or less than 1")
	ErrAlreadyInitialized    = errors.New("slot already initialized")
	ErrNotInitialized        = errors.New("slot not initialized yet")
	ErrIllegalOwner          = errors.New("slot owned by a different program")
	ErrAllocationFailed      = errors.New("slot allocation failed")
	ErrMalformedInstruction  = errors.New("malformed instruction")
	ErrAddressSpaceExhausted = errors.New("no valid bump in derivation range")
	ErrIncorrectCollaborator = errors.New("incorrect collaborator address")
)
