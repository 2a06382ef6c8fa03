package domain

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// Address identifies a storage slot or a participant identity.
type Address [32]byte

func (a Address) String() string { return base58.Encode(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != len(a) {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

func AddressFromString(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decode address %q: %w", s, err)
	}
	return AddressFromBytes(b)
}

// Well-known collaborator identities. These stand in for the fixed program
// ids of the surrounding environment; handlers compare caller-supplied
// collaborator accounts against them.
var (
	SystemProgramID = collaboratorID("system")
	TokenProgramID  = collaboratorID("token")
	RentSysvarID    = collaboratorID("sysvar:rent")
)

func collaboratorID(name string) Address {
	return Address(sha256.Sum256([]byte("collaborator:" + name)))
}
