package plain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dvote/core/ledger"
)

func TestTransaction(t *testing.T) {
	program := ledger.NewAddress([]byte("program"))
	signer := ledger.NewAddress([]byte("signer"))

	tx := NewTransaction(program, []byte{1, 2, 3},
		ledger.Ref{Addr: ledger.NewAddress([]byte("readonly"))},
		ledger.Ref{Addr: signer, Signer: true},
	)

	require.Equal(t, program, tx.GetProgram())
	require.Equal(t, []byte{1, 2, 3}, tx.GetPayload())
	require.Len(t, tx.GetAccounts(), 2)
	require.Equal(t, signer, tx.GetIdentity())

	empty := NewTransaction(program, nil)
	require.Equal(t, ledger.Address{}, empty.GetIdentity())
}
