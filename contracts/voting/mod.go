// Package voting implements the native voting program.
//
// The program maintains two record kinds over the host ledger: one poll
// record per voting topic, stored at an address derived from the title, and
// one voter record per (poll, voter) pair, stored at an address derived from
// the title and the voter identity. The allocation primitive fails on an
// occupied address, which makes the title a de facto unique key across the
// polls and enforces "first vote creates, later votes update" without any
// explicit existence check.
//
// All state lives in the accounts materialized for the invocation; the
// program writes nothing before the whole validation pipeline of the
// operation has passed.
package voting

import (
	"bytes"

	"go.dedis.ch/dvote"
	"go.dedis.ch/dvote/contracts/voting/types"
	"go.dedis.ch/dvote/core/clock"
	"go.dedis.ch/dvote/core/execution"
	"go.dedis.ch/dvote/core/execution/native"
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/ledger/derive"
	"go.dedis.ch/dvote/core/ledger/system"
	"go.dedis.ch/dvote/core/store"
	"golang.org/x/xerrors"
)

// commands defines the operations of the voting program. This interface helps
// in testing the program.
type commands interface {
	createPoll(snap store.Snapshot, step execution.Step, payload []byte) error
	castVote(snap store.Snapshot, step execution.Step, payload []byte) error
	updateVote(snap store.Snapshot, step execution.Step, payload []byte) error
}

const (
	// ContractName is the name of the program.
	ContractName = "go.dedis.ch/dvote.Voting"

	// PollSeed is the domain separator of the poll record addresses.
	PollSeed = "voting_account"

	// VoterSeed is the domain separator of the voter record addresses.
	VoterSeed = "user_vote"
)

// RegisterContract registers the voting program to the given execution
// service, at the program's own address.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(c.program, c)
}

// Contract is the voting program: it creates polls, records votes and allows
// vote updates.
//
// - implements native.Program
type Contract struct {
	// program is the address the program is deployed at. Records owned by
	// the program and address derivations are bound to it.
	program ledger.Address

	// clock is the oracle providing the current ledger time.
	clock clock.Clock

	// cmd provides the operations that can be executed by this program
	cmd commands
}

// NewContract creates a new voting program deployed at the given address.
func NewContract(program ledger.Address, ck clock.Clock) Contract {
	contract := Contract{
		program: program,
		clock:   ck,
	}

	contract.cmd = votingCommand{Contract: &contract}

	return contract
}

// Execute implements native.Program. It reads the operation tag at the head
// of the payload and runs the matching operation. Operation errors are
// returned as-is so that the caller observes the stable code of the first
// violated precondition.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	payload := step.Current.GetPayload()
	if len(payload) < types.TagLen {
		return ErrUnknownInstruction
	}

	tag, data := payload[:types.TagLen], payload[types.TagLen:]

	switch {
	case bytes.Equal(tag, types.TagCreatePoll[:]):
		return c.cmd.createPoll(snap, step, data)
	case bytes.Equal(tag, types.TagCastVote[:]):
		return c.cmd.castVote(snap, step, data)
	case bytes.Equal(tag, types.TagUpdateVote[:]):
		return c.cmd.updateVote(snap, step, data)
	default:
		return ErrUnknownInstruction
	}
}

// votingCommand implements the operations of the voting program
//
// - implements commands
type votingCommand struct {
	*Contract
}

// createPoll implements commands. It validates the poll creation, allocates
// the poll record at the derived address and writes it.
func (c votingCommand) createPoll(snap store.Snapshot, step execution.Step, payload []byte) error {
	accounts, err := requireAccounts(step, 3)
	if err != nil {
		return err
	}

	user, pda, sys := accounts[0], accounts[1], accounts[2]

	now := c.clock.Now()

	args, err := types.DecodeCreatePoll(payload)
	if err != nil {
		return xerrors.Errorf("failed to decode instruction: %v", err)
	}

	if !user.Signer {
		return ErrUserSigningNeeded
	}

	if !user.Writable {
		return ErrUserMustBeMutable
	}

	if !pda.Writable {
		return ErrPdaMustBeMutable
	}

	if sys.Addr != system.ID {
		return ErrInvalidSystemProgram
	}

	addr, bump := derive.Derive(c.program, PollSeed, []byte(args.Title))
	if addr != pda.Addr {
		return ErrInvalidPdaAddress
	}

	if args.StartsAt < now {
		return ErrInvalidStartingTime
	}

	if args.EndsAt <= args.StartsAt {
		return ErrInvalidEndingTime
	}

	if len(args.Title) < types.TitleMinLen {
		return ErrTitleInvalidLength
	}

	if args.EndsAt-args.StartsAt > types.MaxVotingDuration {
		return ErrMaxVotingTimeExceeded
	}

	seeds := derive.NewSeeds(c.program, PollSeed, bump, []byte(args.Title))

	err = system.Create(snap, user, pda, types.PollSize, seeds)
	if err != nil {
		return xerrors.Errorf("allocation refused: %v", err)
	}

	record := types.Poll{
		Creator:  user.Addr,
		StartsAt: args.StartsAt,
		EndsAt:   args.EndsAt,
		Title:    args.Title,
	}

	buffer, err := record.Encode()
	if err != nil {
		return xerrors.Errorf("failed to encode poll: %v", err)
	}

	copy(pda.Data, buffer)

	dvote.Logger.Info().Str("contract", ContractName).
		Msgf("poll '%s' created", args.Title)

	return nil
}

// castVote implements commands. It validates the first vote of a voter on a
// poll, allocates the voter record and writes it.
func (c votingCommand) castVote(snap store.Snapshot, step execution.Step, payload []byte) error {
	accounts, err := requireAccounts(step, 4)
	if err != nil {
		return err
	}

	user, poll, voter, sys := accounts[0], accounts[1], accounts[2], accounts[3]

	if !user.Signer {
		return ErrUserSigningNeeded
	}

	if !user.Writable {
		return ErrUserMustBeMutable
	}

	if !voter.Writable {
		return ErrPdaMustBeMutable
	}

	if sys.Addr != system.ID {
		return ErrInvalidSystemProgram
	}

	args, err := types.DecodeBallot(payload)
	if err != nil {
		return xerrors.Errorf("failed to decode instruction: %v", err)
	}

	pollAddr, _ := derive.Derive(c.program, PollSeed, []byte(args.Title))
	if poll.Addr != pollAddr {
		return ErrInvalidPdaAddress
	}

	if poll.Owner != c.program {
		return ErrInvalidAccountOwner
	}

	if len(poll.Data) < types.TagLen || !bytes.Equal(poll.Data[:types.TagLen], types.TagPoll[:]) {
		return ErrMalformedAccountData
	}

	now := c.clock.Now()

	record, err := types.DecodePoll(poll.Data)
	if err != nil {
		return xerrors.Errorf("failed to decode poll: %v", err)
	}

	if record.StartsAt > now {
		return ErrVotingNotStarted
	}

	if record.EndsAt < now {
		return ErrVotingEnded
	}

	voterAddr, bump := derive.Derive(c.program, VoterSeed,
		[]byte(record.Title), user.Addr.Bytes())
	if voter.Addr != voterAddr {
		return ErrInvalidPdaAddress
	}

	seeds := derive.NewSeeds(c.program, VoterSeed, bump,
		[]byte(record.Title), user.Addr.Bytes())

	err = system.Create(snap, user, voter, types.VoterSize, seeds)
	if err != nil {
		return xerrors.Errorf("allocation refused: %v", err)
	}

	ballot := types.Voter{
		LastVoted: now,
		Status:    args.Vote,
		VotedTo:   args.Title,
	}

	buffer, err := ballot.Encode()
	if err != nil {
		return xerrors.Errorf("failed to encode voter record: %v", err)
	}

	copy(voter.Data, buffer)

	dvote.Logger.Info().Str("contract", ContractName).
		Bool("vote", args.Vote).Msgf("voted to '%s'", args.Title)

	return nil
}

// updateVote implements commands. It validates the update and overwrites the
// vote status and timestamp of the existing voter record, in place.
func (c votingCommand) updateVote(snap store.Snapshot, step execution.Step, payload []byte) error {
	accounts, err := requireAccounts(step, 3)
	if err != nil {
		return err
	}

	user, poll, voter := accounts[0], accounts[1], accounts[2]

	if !user.Signer {
		return ErrUserSigningNeeded
	}

	if poll.Owner != c.program {
		return ErrInvalidAccountOwner
	}

	if voter.Owner != c.program {
		return ErrInvalidAccountOwner
	}

	if !voter.Writable {
		return ErrPdaMustBeMutable
	}

	args, err := types.DecodeBallot(payload)
	if err != nil {
		return xerrors.Errorf("failed to decode instruction: %v", err)
	}

	if len(args.Title) < types.TitleMinLen {
		return ErrTitleInvalidLength
	}

	pollAddr, _ := derive.Derive(c.program, PollSeed, []byte(args.Title))
	if poll.Addr != pollAddr {
		return ErrInvalidPdaAddress
	}

	voterAddr, _ := derive.Derive(c.program, VoterSeed,
		[]byte(args.Title), user.Addr.Bytes())
	if voter.Addr != voterAddr {
		return ErrInvalidPdaAddress
	}

	if len(poll.Data) < types.TagLen || !bytes.Equal(poll.Data[:types.TagLen], types.TagPoll[:]) {
		return ErrMalformedAccountData
	}

	now := c.clock.Now()

	record, err := types.DecodePoll(poll.Data)
	if err != nil {
		return xerrors.Errorf("failed to decode poll: %v", err)
	}

	if record.StartsAt > now {
		return ErrVotingNotStarted
	}

	// The bound is strict here, unlike castVote which still accepts a vote
	// at the very last second of the window.
	if record.EndsAt <= now {
		return ErrVotingEnded
	}

	if len(voter.Data) < types.TagLen || !bytes.Equal(voter.Data[:types.TagLen], types.TagVoter[:]) {
		return ErrMalformedAccountData
	}

	ballot, err := types.DecodeVoter(voter.Data)
	if err != nil {
		return xerrors.Errorf("failed to decode voter record: %v", err)
	}

	ballot.Status = args.Vote
	ballot.LastVoted = now

	buffer, err := ballot.Encode()
	if err != nil {
		return xerrors.Errorf("failed to encode voter record: %v", err)
	}

	copy(voter.Data, buffer)

	dvote.Logger.Info().Str("contract", ContractName).
		Bool("vote", args.Vote).Msgf("vote updated on '%s'", args.Title)

	return nil
}

// requireAccounts checks that the step carries at least the number of account
// references the operation needs.
func requireAccounts(step execution.Step, n int) ([]*ledger.Account, error) {
	if len(step.Accounts) < n {
		return nil, xerrors.Errorf("expected %d accounts, got %d",
			n, len(step.Accounts))
	}

	return step.Accounts, nil
}
