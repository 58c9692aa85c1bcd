package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// memory is a minimal snapshot for the tests of this package, to avoid a
// dependency on the store implementations.
type memory map[string][]byte

func (m memory) Get(key []byte) ([]byte, error) { return m[string(key)], nil }
func (m memory) Set(key, value []byte) error    { m[string(key)] = value; return nil }
func (m memory) Delete(key []byte) error        { delete(m, string(key)); return nil }

func TestNewSession(t *testing.T) {
	snap := memory{}

	saved := &Account{
		Addr:    NewAddress([]byte("known")),
		Owner:   NewAddress([]byte("owner")),
		Balance: 42,
		Data:    []byte{1, 2, 3},
	}

	require.NoError(t, Save(snap, saved))

	refs := []Ref{
		{Addr: saved.Addr, Signer: true, Writable: true},
		{Addr: NewAddress([]byte("missing"))},
	}

	session, err := NewSession(snap, refs)
	require.NoError(t, err)

	accounts := session.Accounts()
	require.Len(t, accounts, 2)

	require.True(t, accounts[0].Exists)
	require.True(t, accounts[0].Signer)
	require.True(t, accounts[0].Writable)
	require.Equal(t, saved.Owner, accounts[0].Owner)
	require.Equal(t, uint64(42), accounts[0].Balance)
	require.Equal(t, []byte{1, 2, 3}, accounts[0].Data)

	require.False(t, accounts[1].Exists)
	require.Equal(t, Address{}, accounts[1].Owner)
	require.Equal(t, uint64(0), accounts[1].Balance)
}

func TestSession_Flush(t *testing.T) {
	snap := memory{}

	funded := &Account{Addr: NewAddress([]byte("wallet")), Balance: 100}
	require.NoError(t, Save(snap, funded))

	refs := []Ref{
		{Addr: funded.Addr, Signer: true, Writable: true},
		{Addr: NewAddress([]byte("readonly"))},
	}

	session, err := NewSession(snap, refs)
	require.NoError(t, err)

	accounts := session.Accounts()
	accounts[0].Balance = 58
	accounts[0].Data = []byte("record")
	// a read-only account never reaches the store, even when touched
	accounts[1].Balance = 1000

	require.NoError(t, session.Flush(snap))

	reloaded, err := NewSession(snap, refs)
	require.NoError(t, err)
	require.Equal(t, uint64(58), reloaded.Accounts()[0].Balance)
	require.Equal(t, []byte("record"), reloaded.Accounts()[0].Data)
	require.False(t, reloaded.Accounts()[1].Exists)
}

func TestDecodeAccount(t *testing.T) {
	_, err := DecodeAccount(Address{}, make([]byte, headerLen-1))
	require.EqualError(t, err, "record of 39 bytes is too short")

	account := &Account{
		Addr:    NewAddress([]byte("addr")),
		Owner:   NewAddress([]byte("owner")),
		Balance: 7,
	}

	decoded, err := DecodeAccount(account.Addr, account.encode())
	require.NoError(t, err)
	require.Equal(t, account.Owner, decoded.Owner)
	require.Equal(t, uint64(7), decoded.Balance)
	require.Empty(t, decoded.Data)
}

func TestAddress_String(t *testing.T) {
	require.Equal(t, "61626364", NewAddress([]byte("abcd")).String())
}
