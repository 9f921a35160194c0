package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"netbank-client/internal/client"
	"netbank-client/internal/domain"
	"netbank-client/internal/format"
	"netbank-client/internal/session"
	"netbank-client/internal/syncer"
)

// User-facing messages, surfaced through the notice banner.
const (
	msgRequiredFields  = "Please fill in all required fields"
	msgTransferOK      = "Transfer successful!"
	msgTransferFailed  = "Transfer failed"
	defaultDescription = "Transfer"
)

// viewSwitchDelay is how long the success banner is shown before the
// dashboard switches back to the transaction list.
const viewSwitchDelay = 2 * time.Second

// ErrValidation marks a submission rejected before any network call. The
// attempt is over; the session and the form are fine.
var ErrValidation = errors.New("invalid transfer input")

// Service is the slice of the remote service the pipeline submits to.
type Service interface {
	CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}

// Pipeline validates and submits transfer requests. Validation strictly
// precedes submission, which strictly precedes the success refresh.
// Overlapping submissions are tolerated: the loading flag is a counter
// scoped to the transfer form, and each submission clears it on its own
// way out regardless of outcome.
type Pipeline struct {
	src     Service
	syncer  *syncer.Syncer
	notices *session.Notices
	log     *log.Logger

	mu        sync.Mutex
	inFlight  int
	viewDelay time.Duration
}

// NewPipeline builds a Pipeline over the given service slice, syncer and
// notice banner.
func NewPipeline(src Service, sy *syncer.Syncer, notices *session.Notices) *Pipeline {
	return &Pipeline{
		src:       src,
		syncer:    sy,
		notices:   notices,
		log:       log.NewWithOptions(os.Stderr, log.Options{Prefix: "transfer"}),
		viewDelay: viewSwitchDelay,
	}
}

// Loading reports whether any submission is in flight.
func (p *Pipeline) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight > 0
}

// Submit runs one transfer attempt for the given session: clear displayed
// messages, validate, normalize, submit, surface the outcome, and on
// success refresh the cached views and schedule the switch back to the
// transaction list.
func (p *Pipeline) Submit(ctx context.Context, sess *session.Session, in Input) error {
	p.notices.ClearAll()
	p.begin()
	defer p.finish()

	if in.IBAN == "" || !format.ValidIBAN(in.IBAN) || in.FirstName == "" || in.LastName == "" {
		p.notices.Error(msgRequiredFields)
		return fmt.Errorf("%w: missing or malformed recipient fields", ErrValidation)
	}
	amount, err := format.ParseAmount(in.Amount)
	if err != nil {
		p.notices.Error(msgRequiredFields)
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	description := in.Description
	if description == "" {
		description = defaultDescription
	}
	req := domain.TransferRequest{
		FromIBAN:    sess.Account().IBAN,
		ToIBAN:      format.StripSpaces(in.IBAN),
		ToFirstName: in.FirstName,
		ToLastName:  in.LastName,
		Amount:      amount,
		Description: description,
	}

	result, err := p.src.CreateTransfer(ctx, req)
	if err != nil {
		if sess.Alive() {
			p.notices.Error(rejectionMessage(err))
		}
		p.log.Warn("transfer rejected", "to_iban", req.ToIBAN, "err", err)
		return fmt.Errorf("transfer submission failed: %w", err)
	}

	// The session may have been torn down while the request was in
	// flight; a late success must not touch its state.
	if !sess.Alive() {
		return nil
	}

	if result.Transaction != nil && result.Transaction.Warning != "" {
		p.notices.Warn(result.Transaction.Warning)
	}
	p.notices.Success(msgTransferOK)
	p.syncer.Refresh()
	time.AfterFunc(p.viewDelay, func() {
		sess.SetActiveView(session.ViewTransactions)
	})
	return nil
}

func (p *Pipeline) begin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight++
}

func (p *Pipeline) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight--
}

// rejectionMessage surfaces the service's own words when it declined the
// transfer, and a generic fallback for transport failures.
func rejectionMessage(err error) string {
	var te *client.TransferError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	return msgTransferFailed
}
