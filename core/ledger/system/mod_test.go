package system

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/ledger/derive"
	"go.dedis.ch/dvote/core/store/mem"
)

func TestMinimumBalance(t *testing.T) {
	require.Equal(t, uint64(128*3480*2), MinimumBalance(0))
	require.Equal(t, uint64((128+102)*3480*2), MinimumBalance(102))
}

func TestCreate(t *testing.T) {
	snap := mem.NewSnapshot()
	program := ledger.NewAddress([]byte("program"))

	addr, bump := derive.Derive(program, "record", []byte("seed"))
	seeds := derive.NewSeeds(program, "record", bump, []byte("seed"))

	payer := &ledger.Account{
		Addr:    ledger.NewAddress([]byte("payer")),
		Balance: MinimumBalance(10),
		Signer:  true,
		Exists:  true,
	}

	target := &ledger.Account{Addr: addr, Writable: true}

	err := Create(snap, payer, target, 10, seeds)
	require.NoError(t, err)
	require.True(t, target.Exists)
	require.Equal(t, program, target.Owner)
	require.Equal(t, MinimumBalance(10), target.Balance)
	require.Equal(t, make([]byte, 10), target.Data)
	require.Equal(t, uint64(0), payer.Balance)
}

func TestCreate_Refusals(t *testing.T) {
	snap := mem.NewSnapshot()
	program := ledger.NewAddress([]byte("program"))

	addr, bump := derive.Derive(program, "record", []byte("seed"))
	seeds := derive.NewSeeds(program, "record", bump, []byte("seed"))

	payer := &ledger.Account{
		Addr:    ledger.NewAddress([]byte("payer")),
		Balance: MinimumBalance(10),
		Signer:  true,
		Exists:  true,
	}

	target := &ledger.Account{Addr: addr, Writable: true}

	payer.Signer = false
	err := Create(snap, payer, target, 10, seeds)
	require.EqualError(t, err, "payer '70617965' must sign the allocation")
	payer.Signer = true

	bad := seeds
	bad.Separator = "other"
	err = Create(snap, payer, target, 10, bad)
	require.Contains(t, err.Error(), "seeds do not derive the address")

	payer.Balance = MinimumBalance(10) - 1
	err = Create(snap, payer, target, 10, seeds)
	require.Contains(t, err.Error(), "is required")
	payer.Balance = MinimumBalance(10)

	// occupied in the session
	target.Exists = true
	err = Create(snap, payer, target, 10, seeds)
	require.Contains(t, err.Error(), "already in use")
	target.Exists = false

	// occupied in the snapshot
	require.NoError(t, snap.Set(addr.Bytes(), []byte{0xde, 0xad}))
	err = Create(snap, payer, target, 10, seeds)
	require.Contains(t, err.Error(), "already in use")
}
