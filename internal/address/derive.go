// Package address derives storage addresses deterministically from seed
// tuples, searching a one-byte bump so the result never lands in the
// reserved identity space (valid edwards25519 points).
package address

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"

	"reviewledger/internal/domain"
)

// marker domain-separates derived addresses from ordinary identities.
const marker = "ProgramDerivedAddress"

// Derive finds the address for seeds under program, trying bumps from 255
// down to 0 and keeping the first candidate that is not a valid curve
// point. Identical inputs always yield the identical (address, bump) pair.
func Derive(program domain.Address, seeds ...[]byte) (domain.Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		cand := hash(program, seeds, uint8(bump))
		if offCurve(cand) {
			return cand, uint8(bump), nil
		}
	}
	return domain.Address{}, 0, domain.ErrAddressSpaceExhausted
}

// DeriveWithBump recomputes the address for a known bump. It fails when the
// result is a valid curve point, since Derive can never have produced it.
func DeriveWithBump(program domain.Address, bump uint8, seeds ...[]byte) (domain.Address, error) {
	cand := hash(program, seeds, bump)
	if !offCurve(cand) {
		return domain.Address{}, fmt.Errorf("bump %d yields a reserved address: %w", bump, domain.ErrAddressMismatch)
	}
	return cand, nil
}

// VerifySeeds checks a seed proof as supplied to the ledger: the final seed
// must be the one-byte bump, and the remaining seeds must re-derive target
// under program.
func VerifySeeds(program, target domain.Address, seeds [][]byte) error {
	if len(seeds) == 0 || len(seeds[len(seeds)-1]) != 1 {
		return fmt.Errorf("seed proof must end with a one-byte bump: %w", domain.ErrAddressMismatch)
	}
	bump := seeds[len(seeds)-1][0]
	derived, err := DeriveWithBump(program, bump, seeds[:len(seeds)-1]...)
	if err != nil {
		return err
	}
	if derived != target {
		return fmt.Errorf("seed proof derives %s, want %s: %w", derived, target, domain.ErrAddressMismatch)
	}
	return nil
}

func hash(program domain.Address, seeds [][]byte, bump uint8) domain.Address {
	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write(program[:])
	h.Write([]byte(marker))
	var a domain.Address
	h.Sum(a[:0])
	return a
}

func offCurve(a domain.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err != nil
}
