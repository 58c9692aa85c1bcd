// Package native implements an execution service to run native programs.
//
// A native program is written in Go and packaged with the application. The
// service plays the role of the host runtime: it materializes the accounts a
// transaction references, runs the program on them, and commits the writes
// only when the program succeeds. The invocation is run-to-completion and
// all-or-nothing; a rejected transaction leaves the snapshot untouched.
package native

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"go.dedis.ch/dvote"
	"go.dedis.ch/dvote/core/execution"
	"go.dedis.ch/dvote/core/ledger"
	"go.dedis.ch/dvote/core/store"
	"go.dedis.ch/dvote/core/store/mem"
	"go.dedis.ch/dvote/core/txn"
	"golang.org/x/xerrors"
)

// defines prometheus metrics
var (
	promAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dvote_native_accepted_total",
		Help: "total number of accepted invocations",
	})

	promRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dvote_native_rejected_total",
		Help: "total number of rejected invocations",
	})
)

func init() {
	dvote.PromCollectors = append(dvote.PromCollectors, promAccepted, promRejected)
}

// Program is the interface to implement to register a program that will be
// executed natively.
type Program interface {
	Execute(snap store.Snapshot, step execution.Step) error
}

// Service is an execution service for packaged programs. A program has
// complete access to the accounts materialized for it but its writes reach
// the snapshot only on success.
type Service struct {
	programs map[ledger.Address]Program
}

// NewExecution returns a new empty native execution service.
func NewExecution() *Service {
	return &Service{
		programs: map[ledger.Address]Program{},
	}
}

// Set stores the program at the given address. A transaction targets the
// program by using that address.
func (ns *Service) Set(addr ledger.Address, program Program) {
	if _, ok := ns.programs[addr]; ok {
		panic(xerrors.Errorf("program '%v' already registered", addr))
	}

	ns.programs[addr] = program
}

// Execute processes the incoming transaction and returns the result. An
// error is returned only when the service itself fails; a program rejection
// is reported in the result.
func (ns *Service) Execute(snap store.Snapshot, tx txn.Transaction) (execution.Result, error) {
	program := ns.programs[tx.GetProgram()]
	if program == nil {
		return execution.Result{}, xerrors.Errorf("unknown program '%v'", tx.GetProgram())
	}

	logger := dvote.Logger.With().
		Stringer("invocation", xid.New()).
		Stringer("program", tx.GetProgram()).Logger()

	// The program runs against a buffered view of the snapshot: the parent
	// store sees either the whole invocation or none of it.
	overlay := mem.NewOverlay(snap)

	session, err := ledger.NewSession(overlay, tx.GetAccounts())
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to load accounts: %v", err)
	}

	step := execution.Step{
		Current:  tx,
		Accounts: session.Accounts(),
	}

	err = program.Execute(overlay, step)
	if err != nil {
		promRejected.Inc()

		res := execution.Result{
			Accepted: false,
			Message:  err.Error(),
		}

		var coded execution.Coded
		if errors.As(err, &coded) {
			res.Code = coded.StatusCode()
		}

		logger.Info().Uint32("code", res.Code).Msgf("invocation rejected: %v", err)

		return res, nil
	}

	err = session.Flush(overlay)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to commit accounts: %v", err)
	}

	err = overlay.Flush()
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to commit snapshot: %v", err)
	}

	promAccepted.Inc()

	logger.Debug().Msg("invocation accepted")

	return execution.Result{Accepted: true}, nil
}
