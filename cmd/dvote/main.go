// dvote is a command line tool to run the voting program against a local
// ledger store. It plays the host: it keeps the accounts in a bbolt database,
// funds the wallet of the caller, and submits one instruction per command.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	ucli "github.com/urfave/cli/v2"
	"go.dedis.ch/dvote"
	"go.dedis.ch/dvote/contracts/voting"
	"go.dedis.ch/dvote/contracts/voting/types"
	"go.dedis.ch/dvote/core/clock"
	"go.dedis.ch/dvote/core/execution/native"
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/ledger/derive"
	"go.dedis.ch/dvote/core/ledger/system"
	"go.dedis.ch/dvote/core/store/kv"
	"go.dedis.ch/dvote/core/txn/plain"
	"go.dedis.ch/kyber/v3/suites"
	"golang.org/x/xerrors"
)

var suite = suites.MustFind("Ed25519")

// bucket is the database bucket holding the ledger accounts.
var bucket = []byte("accounts")

// faucetAmount is the balance granted to a wallet seen for the first time.
const faucetAmount = 10_000_000

// programID is the address the voting program is deployed at.
var programID = ledger.NewAddress(digest(voting.ContractName))

func main() {
	app := &ucli.App{
		Name:  "dvote",
		Usage: "run the voting program against a local ledger store",
		Flags: []ucli.Flag{
			&ucli.StringFlag{
				Name:  "db",
				Usage: "path of the ledger database",
				Value: "dvote.db",
			},
		},
		Commands: []*ucli.Command{
			{
				Name:   "keygen",
				Usage:  "generate a voter key",
				Flags:  []ucli.Flag{keyFlag},
				Action: keygen,
			},
			{
				Name:  "create-poll",
				Usage: "create a new poll",
				Flags: []ucli.Flag{
					keyFlag,
					&ucli.StringFlag{Name: "title", Required: true},
					&ucli.Uint64Flag{Name: "starts-at", Required: true},
					&ucli.Uint64Flag{Name: "ends-at", Required: true},
				},
				Action: createPoll,
			},
			{
				Name:  "cast-vote",
				Usage: "cast a first vote on a poll",
				Flags: []ucli.Flag{
					keyFlag,
					&ucli.StringFlag{Name: "title", Required: true},
					&ucli.BoolFlag{Name: "vote"},
				},
				Action: castVote,
			},
			{
				Name:  "update-vote",
				Usage: "change an existing vote",
				Flags: []ucli.Flag{
					keyFlag,
					&ucli.StringFlag{Name: "title", Required: true},
					&ucli.BoolFlag{Name: "vote"},
				},
				Action: updateVote,
			},
			{
				Name:   "polls",
				Usage:  "list the polls of the ledger",
				Action: listPolls,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		dvote.Logger.Fatal().Msg(err.Error())
	}
}

var keyFlag = &ucli.StringFlag{
	Name:  "key",
	Usage: "path of the voter key file",
	Value: "voter.key",
}

// keygen generates a new ed25519 key pair and writes the secret to the key
// file. The identity used on the ledger is the public point.
func keygen(c *ucli.Context) error {
	secret := suite.Scalar().Pick(suite.RandomStream())

	data, err := secret.MarshalBinary()
	if err != nil {
		return xerrors.Errorf("failed to marshal secret: %v", err)
	}

	err = os.WriteFile(c.String("key"), []byte(hex.EncodeToString(data)), 0600)
	if err != nil {
		return xerrors.Errorf("failed to write key file: %v", err)
	}

	addr, err := identity(c)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "new voter key written, identity %v\n", addr)

	return nil
}

// identity loads the key file and returns the voter's ledger address.
func identity(c *ucli.Context) (ledger.Address, error) {
	content, err := os.ReadFile(c.String("key"))
	if err != nil {
		return ledger.Address{}, xerrors.Errorf("failed to read key file: %v", err)
	}

	data, err := hex.DecodeString(strings.TrimSpace(string(content)))
	if err != nil {
		return ledger.Address{}, xerrors.Errorf("malformed key file: %v", err)
	}

	secret := suite.Scalar()

	err = secret.UnmarshalBinary(data)
	if err != nil {
		return ledger.Address{}, xerrors.Errorf("malformed secret: %v", err)
	}

	public, err := suite.Point().Mul(secret, nil).MarshalBinary()
	if err != nil {
		return ledger.Address{}, xerrors.Errorf("failed to marshal public point: %v", err)
	}

	return ledger.NewAddress(public), nil
}

func createPoll(c *ucli.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}

	args := types.CreatePoll{
		StartsAt: uint32(c.Uint64("starts-at")),
		EndsAt:   uint32(c.Uint64("ends-at")),
		Title:    c.String("title"),
	}

	pda, _ := derive.Derive(programID, voting.PollSeed, []byte(args.Title))

	refs := []ledger.Ref{
		{Addr: user, Signer: true, Writable: true},
		{Addr: pda, Writable: true},
		{Addr: system.ID},
	}

	return submit(c, args.Encode(), refs)
}

func castVote(c *ucli.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}

	args := types.Ballot{
		Vote:  c.Bool("vote"),
		Title: c.String("title"),
	}

	poll, _ := derive.Derive(programID, voting.PollSeed, []byte(args.Title))
	voter, _ := derive.Derive(programID, voting.VoterSeed, []byte(args.Title), user.Bytes())

	refs := []ledger.Ref{
		{Addr: user, Signer: true, Writable: true},
		{Addr: poll},
		{Addr: voter, Writable: true},
		{Addr: system.ID},
	}

	return submit(c, args.Encode(types.TagCastVote), refs)
}

func updateVote(c *ucli.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}

	args := types.Ballot{
		Vote:  c.Bool("vote"),
		Title: c.String("title"),
	}

	poll, _ := derive.Derive(programID, voting.PollSeed, []byte(args.Title))
	voter, _ := derive.Derive(programID, voting.VoterSeed, []byte(args.Title), user.Bytes())

	refs := []ledger.Ref{
		{Addr: user, Signer: true},
		{Addr: poll},
		{Addr: voter, Writable: true},
	}

	return submit(c, args.Encode(types.TagUpdateVote), refs)
}

// submit funds the wallet when needed and executes one instruction inside a
// database transaction, so that a rejected invocation rolls back entirely.
func submit(c *ucli.Context, payload []byte, refs []ledger.Ref) error {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	defer db.Close()

	exec := native.NewExecution()
	voting.RegisterContract(exec, voting.NewContract(programID, clock.Wall{}))

	return db.Update(bucket, func(b kv.Bucket) error {
		snap := kv.NewSnapshot(b)

		err := fund(snap, refs[0].Addr)
		if err != nil {
			return xerrors.Errorf("faucet: %v", err)
		}

		tx := plain.NewTransaction(programID, payload, refs...)

		res, err := exec.Execute(snap, tx)
		if err != nil {
			return xerrors.Errorf("execution failed: %v", err)
		}

		if !res.Accepted {
			return xerrors.Errorf("rejected with code %d: %s", res.Code, res.Message)
		}

		fmt.Fprintln(c.App.Writer, "ok")

		return nil
	})
}

// fund grants the faucet amount to a wallet the store has never seen.
func fund(snap kv.Snapshot, addr ledger.Address) error {
	buffer, err := snap.Get(addr.Bytes())
	if err != nil || buffer != nil {
		return err
	}

	return ledger.Save(snap, &ledger.Account{
		Addr:    addr,
		Balance: faucetAmount,
	})
}

// listPolls scans the store and prints every poll record.
func listPolls(c *ucli.Context) error {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	defer db.Close()

	return db.View(bucket, func(b kv.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			account, err := ledger.DecodeAccount(ledger.NewAddress(k), v)
			if err != nil || len(account.Data) < types.TagLen {
				return nil
			}

			if string(account.Data[:types.TagLen]) != string(types.TagPoll[:]) {
				return nil
			}

			poll, err := types.DecodePoll(account.Data)
			if err != nil {
				return nil
			}

			fmt.Fprintf(c.App.Writer, "%s [%d, %d] by %v\n",
				poll.Title, poll.StartsAt, poll.EndsAt, poll.Creator)

			return nil
		})
	})
}

// digest returns a 32-byte digest of the label.
func digest(label string) []byte {
	sum := sha256.Sum256([]byte(label))

	return sum[:]
}
