package voting

import "go.dedis.ch/dvote/core/execution"

// Code is the stable numeric code of a program error. The values form a fixed
// table and are part of the program's interface: they never move when the
// declarations are reordered.
type Code uint32

// defines the error codes of the voting program
const (
	CodeInvalidStartingTime   Code = 0
	CodeInvalidEndingTime     Code = 1
	CodeMaxVotingTimeExceeded Code = 2
	CodeInvalidSystemProgram  Code = 3
	CodeInvalidPdaAddress     Code = 4
	CodeUserSigningNeeded     Code = 5
	CodeUserMustBeMutable     Code = 6
	CodePdaMustBeMutable      Code = 7
	CodeTitleInvalidLength    Code = 8
	CodeInvalidAccountOwner   Code = 9
	CodeVotingNotStarted      Code = 10
	CodeVotingEnded           Code = 11
	CodeMalformedAccountData  Code = 12
	CodeUnknownInstruction    Code = 13
)

// progError is a terminal program error carrying its stable code.
//
// - implements error
// - implements execution.Coded
type progError struct {
	code    Code
	message string
}

// Error implements error.
func (e progError) Error() string {
	return e.message
}

// StatusCode implements execution.Coded.
func (e progError) StatusCode() uint32 {
	return uint32(e.code)
}

var _ execution.Coded = progError{}

// defines the error kinds of the voting program
var (
	// ErrInvalidStartingTime is returned when a poll would start in the past.
	ErrInvalidStartingTime = progError{CodeInvalidStartingTime,
		"starting time is before current time"}

	// ErrInvalidEndingTime is returned when a poll would end before it
	// starts.
	ErrInvalidEndingTime = progError{CodeInvalidEndingTime,
		"ending time is before starting time"}

	// ErrMaxVotingTimeExceeded is returned when the voting window exceeds
	// the maximum duration.
	ErrMaxVotingTimeExceeded = progError{CodeMaxVotingTimeExceeded,
		"max voting time exceeded"}

	// ErrInvalidSystemProgram is returned when the referenced allocator is
	// not the system program.
	ErrInvalidSystemProgram = progError{CodeInvalidSystemProgram,
		"invalid system program account"}

	// ErrInvalidPdaAddress is returned when a supplied address does not
	// match the one derived from the instruction data.
	ErrInvalidPdaAddress = progError{CodeInvalidPdaAddress,
		"invalid derived address"}

	// ErrUserSigningNeeded is returned when the user reference does not
	// sign the transaction.
	ErrUserSigningNeeded = progError{CodeUserSigningNeeded,
		"user must be signer"}

	// ErrUserMustBeMutable is returned when the user account is not marked
	// writable.
	ErrUserMustBeMutable = progError{CodeUserMustBeMutable,
		"user's account must be writable"}

	// ErrPdaMustBeMutable is returned when the derived account is not
	// marked writable.
	ErrPdaMustBeMutable = progError{CodePdaMustBeMutable,
		"derived account must be writable"}

	// ErrTitleInvalidLength is returned when the title is shorter than the
	// minimum length.
	ErrTitleInvalidLength = progError{CodeTitleInvalidLength,
		"title is too short"}

	// ErrInvalidAccountOwner is returned when a record is not owned by the
	// voting program.
	ErrInvalidAccountOwner = progError{CodeInvalidAccountOwner,
		"invalid account owner"}

	// ErrVotingNotStarted is returned when the poll window has not opened
	// yet.
	ErrVotingNotStarted = progError{CodeVotingNotStarted,
		"voting has not started yet"}

	// ErrVotingEnded is returned when the poll window is over.
	ErrVotingEnded = progError{CodeVotingEnded,
		"voting has ended"}

	// ErrMalformedAccountData is returned when a record does not carry the
	// expected leading type tag.
	ErrMalformedAccountData = progError{CodeMalformedAccountData,
		"malformed account data"}

	// ErrUnknownInstruction is returned when the payload starts with an
	// unrecognized operation tag.
	ErrUnknownInstruction = progError{CodeUnknownInstruction,
		"unrecognized instruction"}
)
