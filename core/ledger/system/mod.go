// Package system implements the allocation primitive of the host ledger.
//
// The system program creates a zero-initialized record at a given address,
// funds it with the minimum retained balance for its size, and hands its
// ownership to the invoking program. Creation fails when the address is
// already occupied: this at-most-one-success behavior is the only concurrency
// control the host offers, and programs rely on it to turn derived addresses
// into unique keys.
package system

import (
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/ledger/derive"
	"go.dedis.ch/dvote/core/store"
	"golang.org/x/xerrors"
)

// ID is the well-known address of the system program. A transaction that
// claims to invoke the allocation primitive must reference it exactly.
var ID = ledger.Address{}

const (
	// storageOverhead is the per-record number of bytes charged on top of
	// the data size.
	storageOverhead = 128

	// costPerByteYear is the retained balance charged per byte and per year.
	costPerByteYear = 3480

	// retentionYears is the number of years a record must be funded for.
	retentionYears = 2
)

// MinimumBalance returns the balance a record of the given size must retain.
func MinimumBalance(space int) uint64 {
	return uint64(storageOverhead+space) * costPerByteYear * retentionYears
}

// Create allocates a record of the given size at the target address, owned by
// the program the seeds are derived under. The payer funds the minimum
// retained balance. The target must be vacant, both in the session and in the
// snapshot, and the seeds must re-derive to its address: the derivation is
// the proof that the invoking program controls the target.
func Create(snap store.Readable, payer, target *ledger.Account,
	space int, seeds derive.Seeds) error {

	if !payer.Signer {
		return xerrors.Errorf("payer '%v' must sign the allocation", payer.Addr)
	}

	if seeds.Address() != target.Addr {
		return xerrors.Errorf("seeds do not derive the address '%v'", target.Addr)
	}

	if target.Exists {
		return xerrors.Errorf("address '%v' is already in use", target.Addr)
	}

	buffer, err := snap.Get(target.Addr.Bytes())
	if err != nil {
		return xerrors.Errorf("failed to read '%v': %v", target.Addr, err)
	}

	if buffer != nil {
		return xerrors.Errorf("address '%v' is already in use", target.Addr)
	}

	funds := MinimumBalance(space)

	if payer.Balance < funds {
		return xerrors.Errorf("payer '%v' holds %d but %d is required",
			payer.Addr, payer.Balance, funds)
	}

	payer.Balance -= funds

	target.Owner = seeds.Program
	target.Balance = funds
	target.Data = make([]byte, space)
	target.Exists = true

	return nil
}
