// Package ledger defines the account model of the host ledger.
//
// An account is a keyed record made of an owner, a balance and a raw data
// buffer, persisted in the store under its 32-byte address. A session
// materializes the accounts referenced by a transaction, carries the
// per-invocation signer and writable flags, and flushes the mutations back to
// the snapshot only when the invocation has succeeded, so that a rejected
// invocation leaves no partial write behind.
package ledger

import (
	"encoding/binary"
	"encoding/hex"

	"go.dedis.ch/dvote/core/store"
	"golang.org/x/xerrors"
)

// AddrLen is the length of an account address in bytes.
const AddrLen = 32

// headerLen is the persisted size of an account without its data.
const headerLen = AddrLen + 8

// Address is the unique identifier of an account.
type Address [AddrLen]byte

// NewAddress creates an address from a slice. The slice is truncated or
// zero-padded to the address length.
func NewAddress(data []byte) Address {
	addr := Address{}
	copy(addr[:], data)

	return addr
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// String implements fmt.Stringer. It returns a shortened hex representation
// of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:4])
}

// Ref is a reference to an account inside a transaction. The flags are per
// invocation: they express what the transaction claims about the account, not
// a property of the account itself.
type Ref struct {
	Addr     Address
	Signer   bool
	Writable bool
}

// Account is the in-invocation view of a ledger record.
type Account struct {
	Addr     Address
	Owner    Address
	Balance  uint64
	Data     []byte
	Signer   bool
	Writable bool

	// Exists is false when the address had no record when the session was
	// created and none was allocated since.
	Exists bool
}

// encode returns the persisted representation of the account.
func (a *Account) encode() []byte {
	buffer := make([]byte, headerLen+len(a.Data))
	copy(buffer, a.Owner[:])
	binary.LittleEndian.PutUint64(buffer[AddrLen:], a.Balance)
	copy(buffer[headerLen:], a.Data)

	return buffer
}

// decodeAccount fills an account from its persisted representation.
func decodeAccount(addr Address, buffer []byte) (*Account, error) {
	if len(buffer) < headerLen {
		return nil, xerrors.Errorf("record of %d bytes is too short", len(buffer))
	}

	account := &Account{
		Addr:    addr,
		Owner:   NewAddress(buffer[:AddrLen]),
		Balance: binary.LittleEndian.Uint64(buffer[AddrLen:headerLen]),
		Data:    append([]byte{}, buffer[headerLen:]...),
		Exists:  true,
	}

	return account, nil
}

// Save persists the account outside of any invocation. It is meant for
// host-side tooling, typically a local faucet funding a wallet.
func Save(snap store.Writable, account *Account) error {
	account.Exists = true

	err := snap.Set(account.Addr.Bytes(), account.encode())
	if err != nil {
		return xerrors.Errorf("failed to write '%v': %v", account.Addr, err)
	}

	return nil
}

// DecodeAccount reads a persisted account record, for host-side tooling that
// scans the store directly.
func DecodeAccount(addr Address, buffer []byte) (*Account, error) {
	return decodeAccount(addr, buffer)
}

// Session is the set of accounts visible to one invocation.
type Session struct {
	accounts []*Account
}

// NewSession loads the referenced accounts from the snapshot. An address with
// no record yields a non-existing account with a zero owner and balance.
func NewSession(snap store.Readable, refs []Ref) (*Session, error) {
	accounts := make([]*Account, len(refs))

	for i, ref := range refs {
		buffer, err := snap.Get(ref.Addr.Bytes())
		if err != nil {
			return nil, xerrors.Errorf("failed to read '%v': %v", ref.Addr, err)
		}

		if buffer == nil {
			accounts[i] = &Account{Addr: ref.Addr}
		} else {
			accounts[i], err = decodeAccount(ref.Addr, buffer)
			if err != nil {
				return nil, xerrors.Errorf("malformed account '%v': %v", ref.Addr, err)
			}
		}

		accounts[i].Signer = ref.Signer
		accounts[i].Writable = ref.Writable
	}

	return &Session{accounts: accounts}, nil
}

// Accounts returns the accounts of the session, in the order of the
// references given at creation.
func (s *Session) Accounts() []*Account {
	return s.accounts
}

// Flush writes the existing writable accounts back to the snapshot.
func (s *Session) Flush(snap store.Writable) error {
	for _, account := range s.accounts {
		if !account.Exists || !account.Writable {
			continue
		}

		err := snap.Set(account.Addr.Bytes(), account.encode())
		if err != nil {
			return xerrors.Errorf("failed to write '%v': %v", account.Addr, err)
		}
	}

	return nil
}
