// Package txn defines the abstraction of transactions.
//
// A transaction targets one program and carries the raw instruction payload
// along with the ordered list of account references the program will operate
// on. Signature verification happens before a transaction reaches the
// execution service: at this level the signer flag of a reference is trusted.
package txn

import "go.dedis.ch/dvote/core/ledger"

// Transaction is what triggers a program execution by passing it as part of
// the input.
type Transaction interface {
	// GetProgram returns the address of the program to execute.
	GetProgram() ledger.Address

	// GetPayload returns the raw instruction payload.
	GetPayload() []byte

	// GetAccounts returns the ordered account references of the transaction.
	GetAccounts() []ledger.Ref

	// GetIdentity returns the address of the first signing reference, or the
	// zero address if the transaction has none.
	GetIdentity() ledger.Address
}
