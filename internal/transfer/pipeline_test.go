package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netbank-client/internal/client"
	"netbank-client/internal/domain"
	"netbank-client/internal/session"
	"netbank-client/internal/syncer"
)

const ownIBAN = "DE02120300000000202051"

type fakeSource struct {
	mu           sync.Mutex
	transactions []domain.Transaction
	recipients   []domain.SavedRecipient
	accountCalls int
}

func (f *fakeSource) FetchAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	return &domain.Account{ID: "u1", IBAN: ownIBAN, AccountNumber: accountNumber, Balance: 1000.00}, nil
}

func (f *fakeSource) FetchTransactions(ctx context.Context, iban string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, len(f.transactions))
	copy(out, f.transactions)
	return out, nil
}

func (f *fakeSource) FetchSavedRecipients(ctx context.Context, userID string) ([]domain.SavedRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SavedRecipient, len(f.recipients))
	copy(out, f.recipients)
	return out, nil
}

func (f *fakeSource) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountCalls
}

func (f *fakeSource) addTransaction(tx domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, tx)
}

type fakeService struct {
	mu       sync.Mutex
	requests []domain.TransferRequest
	result   *domain.TransferResult
	err      error
	block    chan struct{}
}

func (f *fakeService) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.result, f.err
}

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeService) lastRequest() domain.TransferRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type noopRemote struct{}

func (noopRemote) DeleteAccount(ctx context.Context, userID string) error { return nil }

// harness wires a real controller, syncer and notice banner around fakes,
// the way cmd/netbank does.
type harness struct {
	sess       *session.Session
	syncer     *syncer.Syncer
	source     *fakeSource
	notices    *session.Notices
	controller *session.Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	src := &fakeSource{}
	sy := syncer.New(src, time.Hour)
	c := session.New(noopRemote{}, sy, time.Hour)
	sess, err := c.Activate(domain.Account{
		ID:            "u1",
		FirstName:     "Max",
		LastName:      "Mustermann",
		IBAN:          ownIBAN,
		AccountNumber: "1000001",
	})
	require.NoError(t, err)
	t.Cleanup(c.Logout)

	require.Eventually(t, func() bool { return src.fetches() >= 1 },
		2*time.Second, 10*time.Millisecond)

	return &harness{
		sess:       sess,
		syncer:     sy,
		source:     src,
		notices:    session.NewNotices(time.Hour),
		controller: c,
	}
}

func validInput() Input {
	return Input{
		IBAN:      "DE89 3704 0044 0532 0130 00",
		FirstName: "Erika",
		LastName:  "Musterfrau",
		Amount:    "250.00",
	}
}

func TestSubmitRejectsMissingFieldsBeforeAnyNetworkCall(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"empty iban", func(in *Input) { in.IBAN = "" }},
		{"malformed iban", func(in *Input) { in.IBAN = "DE89" }},
		{"empty first name", func(in *Input) { in.FirstName = "" }},
		{"empty last name", func(in *Input) { in.LastName = "" }},
		{"empty amount", func(in *Input) { in.Amount = "" }},
		{"masked-out amount", func(in *Input) { in.Amount = "12.345" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			svc := &fakeService{}
			p := NewPipeline(svc, h.syncer, h.notices)

			in := validInput()
			tt.mutate(&in)

			err := p.Submit(context.Background(), h.sess, in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, svc.calls())

			errMsg, _, _ := h.notices.Snapshot()
			assert.Equal(t, "Please fill in all required fields", errMsg)
			assert.False(t, p.Loading())
		})
	}
}

func TestSubmitSurfacesServiceRejection(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{err: &client.TransferError{Message: "Recipient IBAN not found. Please check the IBAN and try again."}}
	p := NewPipeline(svc, h.syncer, h.notices)

	before := h.source.fetches()
	err := p.Submit(context.Background(), h.sess, validInput())
	require.Error(t, err)

	errMsg, _, success := h.notices.Snapshot()
	assert.Equal(t, "Recipient IBAN not found. Please check the IBAN and try again.", errMsg)
	assert.Empty(t, success)

	// No refresh on failure; the transaction view stays as it was.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, h.source.fetches())
	assert.False(t, p.Loading())
}

func TestSubmitFallsBackToGenericMessageOnTransportFailure(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{err: errors.New("connection refused")}
	p := NewPipeline(svc, h.syncer, h.notices)

	err := p.Submit(context.Background(), h.sess, validInput())
	require.Error(t, err)

	errMsg, _, _ := h.notices.Snapshot()
	assert.Equal(t, "Transfer failed", errMsg)
}

func TestSubmitSuccessWithWarningShowsBoth(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{result: &domain.TransferResult{
		Success:     true,
		Transaction: &domain.Transaction{ID: "t9", Warning: "Name mismatch: Account holder is Erika Musterfrau"},
	}}
	p := NewPipeline(svc, h.syncer, h.notices)

	before := h.source.fetches()
	require.NoError(t, p.Submit(context.Background(), h.sess, validInput()))

	errMsg, warning, success := h.notices.Snapshot()
	assert.Empty(t, errMsg)
	assert.Equal(t, "Name mismatch: Account holder is Erika Musterfrau", warning)
	assert.Equal(t, "Transfer successful!", success)

	require.Eventually(t, func() bool { return h.source.fetches() > before },
		2*time.Second, 10*time.Millisecond)
}

func TestSubmitNormalizesRequest(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{result: &domain.TransferResult{Success: true}}
	p := NewPipeline(svc, h.syncer, h.notices)

	require.NoError(t, p.Submit(context.Background(), h.sess, validInput()))

	req := svc.lastRequest()
	assert.Equal(t, ownIBAN, req.FromIBAN)
	assert.Equal(t, "DE89370400440532013000", req.ToIBAN)
	assert.Equal(t, "Erika", req.ToFirstName)
	assert.Equal(t, "Musterfrau", req.ToLastName)
	assert.Equal(t, 250.00, req.Amount)
	assert.Equal(t, "Transfer", req.Description)
}

func TestSubmitKeepsExplicitDescription(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{result: &domain.TransferResult{Success: true}}
	p := NewPipeline(svc, h.syncer, h.notices)

	in := validInput()
	in.Description = "Rent"
	require.NoError(t, p.Submit(context.Background(), h.sess, in))
	assert.Equal(t, "Rent", svc.lastRequest().Description)
}

func TestSuccessfulTransferLandsInTransactionView(t *testing.T) {
	h := newHarness(t)
	svc := &fakeService{result: &domain.TransferResult{Success: true}}
	p := NewPipeline(svc, h.syncer, h.notices)
	p.viewDelay = 50 * time.Millisecond

	h.sess.SetActiveView(session.ViewSendMoney)
	h.source.addTransaction(domain.Transaction{
		ID:       "t2",
		FromIBAN: ownIBAN,
		ToIBAN:   "DE89370400440532013000",
		Amount:   250.00,
	})

	require.NoError(t, p.Submit(context.Background(), h.sess, validInput()))

	_, _, success := h.notices.Snapshot()
	assert.Equal(t, "Transfer successful!", success)

	// The refresh picks up the new outgoing transaction and the view
	// switches back to the transaction list after the delay.
	require.Eventually(t, func() bool {
		for _, tx := range h.syncer.Transactions() {
			if tx.ID == "t2" && tx.Direction(ownIBAN) == domain.Out && tx.Amount == 250.00 {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return h.sess.ActiveView() == session.ViewTransactions
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLoadingFlagCoversSubmission(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	svc := &fakeService{result: &domain.TransferResult{Success: true}, block: block}
	p := NewPipeline(svc, h.syncer, h.notices)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Submit(context.Background(), h.sess, validInput())
	}()

	require.Eventually(t, func() bool { return p.Loading() },
		2*time.Second, 10*time.Millisecond)
	close(block)
	<-done
	assert.False(t, p.Loading())
}

func TestLateSuccessAfterLogoutIsDiscarded(t *testing.T) {
	h := newHarness(t)
	block := make(chan struct{})
	svc := &fakeService{result: &domain.TransferResult{Success: true}, block: block}
	p := NewPipeline(svc, h.syncer, h.notices)

	done := make(chan error, 1)
	go func() {
		done <- p.Submit(context.Background(), h.sess, validInput())
	}()
	require.Eventually(t, func() bool { return svc.calls() == 1 },
		2*time.Second, 10*time.Millisecond)

	h.controller.Logout()
	close(block)
	require.NoError(t, <-done)

	_, _, success := h.notices.Snapshot()
	assert.Empty(t, success)
}
