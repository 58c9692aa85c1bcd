// Package execution defines the primitives to execute a transaction against
// a program.
package execution

import (
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/txn"
)

// Step is the input of a program execution. The accounts are materialized
// from the transaction references, in the same order.
type Step struct {
	Current  txn.Transaction
	Accounts []*ledger.Account
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a chance to the execution to explain why a transaction
	// has been rejected.
	Message string

	// Code is the stable numeric code of the rejection when the program
	// reported one.
	Code uint32
}

// Coded is implemented by program errors that map to a stable numeric code.
type Coded interface {
	StatusCode() uint32
}
