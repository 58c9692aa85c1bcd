// Package types defines the persisted records and the instruction payloads of
// the voting program, along with their fixed binary layout.
//
// Integers are little-endian, booleans take one byte and strings are encoded
// with a 4-byte length prefix. A persisted record always occupies its full
// allocation: the bytes after the title are left zeroed so that the same
// record always encodes to the same buffer.
package types

import (
	"crypto/sha256"
	"encoding/binary"

	"go.dedis.ch/dvote/core/ledger"
	"golang.org/x/xerrors"
)

const (
	// TagLen is the length of a type tag, for records and instructions alike.
	TagLen = 8

	// TitleMaxLen is the maximum stored width of a poll title.
	TitleMaxLen = 50

	// TitleMinLen is the minimum accepted length of a poll title.
	TitleMinLen = 10

	// MaxVotingDuration is the longest accepted voting window, in seconds.
	// It corresponds to 14 days.
	MaxVotingDuration = 1_209_600

	// PollSize is the exact allocation of a poll record.
	PollSize = TagLen + ledger.AddrLen + 4 + 4 + (4 + TitleMaxLen)

	// VoterSize is the exact allocation of a voter record.
	VoterSize = TagLen + 4 + 1 + (4 + TitleMaxLen)
)

// Tag derives the 8-byte type tag of the given label. Tags identify both the
// operations in an instruction payload and the kind of a persisted record.
func Tag(label string) [TagLen]byte {
	digest := sha256.Sum256([]byte(label))

	tag := [TagLen]byte{}
	copy(tag[:], digest[:TagLen])

	return tag
}

// defines the process-wide tags, derived once
var (
	// TagCreatePoll identifies the instruction creating a poll.
	TagCreatePoll = Tag("instruction:create_voting")

	// TagCastVote identifies the instruction casting a first vote.
	TagCastVote = Tag("instruction:vote")

	// TagUpdateVote identifies the instruction updating an existing vote.
	TagUpdateVote = Tag("instruction:update_vote")

	// TagPoll marks a persisted poll record.
	TagPoll = Tag("account:vote")

	// TagVoter marks a persisted voter record.
	TagVoter = Tag("account:user_voting")
)

// Poll is the record of one voting topic.
type Poll struct {
	Creator  ledger.Address
	StartsAt uint32
	EndsAt   uint32
	Title    string
}

// Encode returns the poll record over its full allocation, marked with the
// poll tag.
func (p Poll) Encode() ([]byte, error) {
	buffer := make([]byte, PollSize)

	copy(buffer, TagPoll[:])
	copy(buffer[TagLen:], p.Creator.Bytes())
	binary.LittleEndian.PutUint32(buffer[TagLen+ledger.AddrLen:], p.StartsAt)
	binary.LittleEndian.PutUint32(buffer[TagLen+ledger.AddrLen+4:], p.EndsAt)

	err := putString(buffer[TagLen+ledger.AddrLen+8:], p.Title)
	if err != nil {
		return nil, xerrors.Errorf("title: %v", err)
	}

	return buffer, nil
}

// DecodePoll reads a poll record. The leading tag is not interpreted here:
// checking it against the expected constant belongs to the caller so that the
// check stays visible in the validation pipeline.
func DecodePoll(buffer []byte) (Poll, error) {
	if len(buffer) < PollSize {
		return Poll{}, xerrors.Errorf("buffer of %d bytes is too short", len(buffer))
	}

	title, err := getString(buffer[TagLen+ledger.AddrLen+8:])
	if err != nil {
		return Poll{}, xerrors.Errorf("title: %v", err)
	}

	poll := Poll{
		Creator:  ledger.NewAddress(buffer[TagLen : TagLen+ledger.AddrLen]),
		StartsAt: binary.LittleEndian.Uint32(buffer[TagLen+ledger.AddrLen:]),
		EndsAt:   binary.LittleEndian.Uint32(buffer[TagLen+ledger.AddrLen+4:]),
		Title:    title,
	}

	return poll, nil
}

// Voter is the record of one voter's state for one poll.
type Voter struct {
	LastVoted uint32
	Status    bool
	VotedTo   string
}

// Encode returns the voter record over its full allocation, marked with the
// voter tag.
func (v Voter) Encode() ([]byte, error) {
	buffer := make([]byte, VoterSize)

	copy(buffer, TagVoter[:])
	binary.LittleEndian.PutUint32(buffer[TagLen:], v.LastVoted)

	if v.Status {
		buffer[TagLen+4] = 1
	}

	err := putString(buffer[TagLen+5:], v.VotedTo)
	if err != nil {
		return nil, xerrors.Errorf("voted to: %v", err)
	}

	return buffer, nil
}

// DecodeVoter reads a voter record. As for polls, the tag is left to the
// caller.
func DecodeVoter(buffer []byte) (Voter, error) {
	if len(buffer) < VoterSize {
		return Voter{}, xerrors.Errorf("buffer of %d bytes is too short", len(buffer))
	}

	votedTo, err := getString(buffer[TagLen+5:])
	if err != nil {
		return Voter{}, xerrors.Errorf("voted to: %v", err)
	}

	voter := Voter{
		LastVoted: binary.LittleEndian.Uint32(buffer[TagLen:]),
		Status:    buffer[TagLen+4] != 0,
		VotedTo:   votedTo,
	}

	return voter, nil
}

// CreatePoll is the input shape of the poll creation instruction.
type CreatePoll struct {
	StartsAt uint32
	EndsAt   uint32
	Title    string
}

// Encode returns the full instruction payload, including the operation tag.
func (c CreatePoll) Encode() []byte {
	buffer := make([]byte, TagLen+4+4+4+len(c.Title))

	copy(buffer, TagCreatePoll[:])
	binary.LittleEndian.PutUint32(buffer[TagLen:], c.StartsAt)
	binary.LittleEndian.PutUint32(buffer[TagLen+4:], c.EndsAt)
	binary.LittleEndian.PutUint32(buffer[TagLen+8:], uint32(len(c.Title)))
	copy(buffer[TagLen+12:], c.Title)

	return buffer
}

// DecodeCreatePoll reads the fields of a poll creation, without the leading
// operation tag.
func DecodeCreatePoll(buffer []byte) (CreatePoll, error) {
	if len(buffer) < 12 {
		return CreatePoll{}, xerrors.Errorf("buffer of %d bytes is too short", len(buffer))
	}

	title, err := getRawString(buffer[8:])
	if err != nil {
		return CreatePoll{}, xerrors.Errorf("title: %v", err)
	}

	args := CreatePoll{
		StartsAt: binary.LittleEndian.Uint32(buffer),
		EndsAt:   binary.LittleEndian.Uint32(buffer[4:]),
		Title:    title,
	}

	return args, nil
}

// Ballot is the input shape shared by the vote and vote update instructions.
type Ballot struct {
	Vote  bool
	Title string
}

// Encode returns the full instruction payload under the given operation tag.
func (b Ballot) Encode(tag [TagLen]byte) []byte {
	buffer := make([]byte, TagLen+1+4+len(b.Title))

	copy(buffer, tag[:])

	if b.Vote {
		buffer[TagLen] = 1
	}

	binary.LittleEndian.PutUint32(buffer[TagLen+1:], uint32(len(b.Title)))
	copy(buffer[TagLen+5:], b.Title)

	return buffer
}

// DecodeBallot reads the fields of a vote or vote update, without the leading
// operation tag.
func DecodeBallot(buffer []byte) (Ballot, error) {
	if len(buffer) < 5 {
		return Ballot{}, xerrors.Errorf("buffer of %d bytes is too short", len(buffer))
	}

	title, err := getRawString(buffer[1:])
	if err != nil {
		return Ballot{}, xerrors.Errorf("title: %v", err)
	}

	args := Ballot{
		Vote:  buffer[0] != 0,
		Title: title,
	}

	return args, nil
}

// putString writes the length-prefixed string at the beginning of the buffer.
// The buffer must hold the maximum stored width.
func putString(buffer []byte, value string) error {
	if len(value) > TitleMaxLen {
		return xerrors.Errorf("%d bytes exceeds the %d limit", len(value), TitleMaxLen)
	}

	binary.LittleEndian.PutUint32(buffer, uint32(len(value)))
	copy(buffer[4:], value)

	return nil
}

// getString reads a length-prefixed string bounded by the maximum stored
// width.
func getString(buffer []byte) (string, error) {
	length := binary.LittleEndian.Uint32(buffer)
	if length > TitleMaxLen {
		return "", xerrors.Errorf("length %d exceeds the %d limit", length, TitleMaxLen)
	}

	return string(buffer[4 : 4+length]), nil
}

// getRawString reads a length-prefixed string from an instruction payload,
// bounded only by the remaining bytes.
func getRawString(buffer []byte) (string, error) {
	if len(buffer) < 4 {
		return "", xerrors.Errorf("buffer of %d bytes is too short", len(buffer))
	}

	length := binary.LittleEndian.Uint32(buffer)
	if uint64(length) > uint64(len(buffer)-4) {
		return "", xerrors.Errorf("length %d exceeds the %d remaining bytes",
			length, len(buffer)-4)
	}

	return string(buffer[4 : 4+length]), nil
}
