package types

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/dvote/core/ledger"
)

func TestTag(t *testing.T) {
	require.Equal(t, Tag("instruction:vote"), Tag("instruction:vote"))
	require.NotEqual(t, Tag("instruction:vote"), Tag("instruction:update_vote"))

	tags := [][TagLen]byte{TagCreatePoll, TagCastVote, TagUpdateVote, TagPoll, TagVoter}
	for i, a := range tags {
		for _, b := range tags[i+1:] {
			require.NotEqual(t, a, b)
		}
	}
}

func TestPoll_Encode(t *testing.T) {
	poll := Poll{
		Creator:  ledger.NewAddress([]byte{0xaa}),
		StartsAt: 1000,
		EndsAt:   1000 + 86400,
		Title:    "Best Pet Ever!",
	}

	buffer, err := poll.Encode()
	require.NoError(t, err)
	require.Len(t, buffer, PollSize)
	require.Equal(t, TagPoll[:], buffer[:TagLen])

	// same record, same bytes
	again, err := poll.Encode()
	require.NoError(t, err)
	require.True(t, bytes.Equal(buffer, again))

	decoded, err := DecodePoll(buffer)
	require.NoError(t, err)
	require.Equal(t, poll, decoded)

	poll.Title = strings.Repeat("x", TitleMaxLen+1)

	_, err = poll.Encode()
	require.EqualError(t, err, "title: 51 bytes exceeds the 50 limit")
}

func TestDecodePoll_Malformed(t *testing.T) {
	_, err := DecodePoll(make([]byte, PollSize-1))
	require.EqualError(t, err, "buffer of 101 bytes is too short")

	buffer := make([]byte, PollSize)
	buffer[TagLen+ledger.AddrLen+8] = TitleMaxLen + 1

	_, err = DecodePoll(buffer)
	require.EqualError(t, err, "title: length 51 exceeds the 50 limit")
}

func TestVoter_Encode(t *testing.T) {
	voter := Voter{
		LastVoted: 1500,
		Status:    true,
		VotedTo:   "Best Pet Ever!",
	}

	buffer, err := voter.Encode()
	require.NoError(t, err)
	require.Len(t, buffer, VoterSize)
	require.Equal(t, TagVoter[:], buffer[:TagLen])

	decoded, err := DecodeVoter(buffer)
	require.NoError(t, err)
	require.Equal(t, voter, decoded)

	voter.Status = false

	buffer, err = voter.Encode()
	require.NoError(t, err)

	decoded, err = DecodeVoter(buffer)
	require.NoError(t, err)
	require.False(t, decoded.Status)

	_, err = DecodeVoter(make([]byte, VoterSize-1))
	require.EqualError(t, err, "buffer of 66 bytes is too short")
}

func TestCreatePoll_Encode(t *testing.T) {
	args := CreatePoll{
		StartsAt: 1000,
		EndsAt:   2000,
		Title:    "Best Pet Ever!",
	}

	payload := args.Encode()
	require.Equal(t, TagCreatePoll[:], payload[:TagLen])

	decoded, err := DecodeCreatePoll(payload[TagLen:])
	require.NoError(t, err)
	require.Equal(t, args, decoded)

	_, err = DecodeCreatePoll(payload[TagLen : TagLen+11])
	require.EqualError(t, err, "buffer of 11 bytes is too short")

	// truncated title
	_, err = DecodeCreatePoll(payload[TagLen : len(payload)-1])
	require.EqualError(t, err, "title: length 14 exceeds the 13 remaining bytes")
}

func TestBallot_Encode(t *testing.T) {
	args := Ballot{
		Vote:  true,
		Title: "Best Pet Ever!",
	}

	payload := args.Encode(TagCastVote)
	require.Equal(t, TagCastVote[:], payload[:TagLen])

	decoded, err := DecodeBallot(payload[TagLen:])
	require.NoError(t, err)
	require.Equal(t, args, decoded)

	_, err = DecodeBallot(payload[TagLen : TagLen+4])
	require.EqualError(t, err, "buffer of 4 bytes is too short")
}
