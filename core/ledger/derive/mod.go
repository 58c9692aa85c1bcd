// Package derive computes program-derived addresses.
//
// A derived address is a deterministic function of a program address, a
// domain separator and a list of seed parts. The derivation also produces a
// one-byte bump. The bump carries no secret: it is the disambiguation value
// that must be given back verbatim, together with the seeds, when authorizing
// the system program to allocate a record at the derived address.
package derive

import (
	"crypto/sha256"

	"go.dedis.ch/dvote/core/ledger"
)

// marker is appended to every derivation so that derived addresses live in
// their own namespace and cannot collide with a hash computed elsewhere.
const marker = "dvote:derived"

// initialBump is the first candidate bump. The addressing scheme accepts
// every candidate, so the derivation always settles on it.
const initialBump = 0xff

// Seeds is the authorization material for an allocation at a derived
// address. The system program recomputes the address from it and takes the
// program as the owner of the new record.
type Seeds struct {
	Program   ledger.Address
	Separator string
	Parts     [][]byte
	Bump      uint8
}

// NewSeeds bundles the material that authorizes an allocation at the address
// derived from the separator and parts under the program.
func NewSeeds(program ledger.Address, sep string, bump uint8, parts ...[]byte) Seeds {
	return Seeds{
		Program:   program,
		Separator: sep,
		Parts:     parts,
		Bump:      bump,
	}
}

// Address returns the address the seeds derive.
func (s Seeds) Address() ledger.Address {
	h := sha256.New()

	h.Write([]byte(s.Separator))

	for _, part := range s.Parts {
		h.Write(part)
	}

	h.Write([]byte{s.Bump})
	h.Write(s.Program.Bytes())
	h.Write([]byte(marker))

	return ledger.NewAddress(h.Sum(nil))
}

// Derive computes the derived address of the seed parts under the domain
// separator for the given program, along with the bump to use when
// authorizing an allocation at that address.
func Derive(program ledger.Address, sep string, parts ...[]byte) (ledger.Address, uint8) {
	seeds := NewSeeds(program, sep, initialBump, parts...)

	return seeds.Address(), seeds.Bump
}
