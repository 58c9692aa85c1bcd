// Package plain provides a simple transaction implementation.
package plain

import (
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/txn"
)

// Transaction is a transaction assembled in memory.
//
// - implements txn.Transaction
type Transaction struct {
	program  ledger.Address
	payload  []byte
	accounts []ledger.Ref
}

// NewTransaction creates a transaction for the program with the given payload
// and account references.
func NewTransaction(program ledger.Address, payload []byte, refs ...ledger.Ref) Transaction {
	return Transaction{
		program:  program,
		payload:  payload,
		accounts: refs,
	}
}

// GetProgram implements txn.Transaction.
func (t Transaction) GetProgram() ledger.Address {
	return t.program
}

// GetPayload implements txn.Transaction.
func (t Transaction) GetPayload() []byte {
	return append([]byte{}, t.payload...)
}

// GetAccounts implements txn.Transaction.
func (t Transaction) GetAccounts() []ledger.Ref {
	return append([]ledger.Ref{}, t.accounts...)
}

// GetIdentity implements txn.Transaction.
func (t Transaction) GetIdentity() ledger.Address {
	for _, ref := range t.accounts {
		if ref.Signer {
			return ref.Addr
		}
	}

	return ledger.Address{}
}

var _ txn.Transaction = Transaction{}
