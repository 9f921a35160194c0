// Package syncer keeps the client's cached views of the account, the
// transaction history and the saved recipients in step with the remote
// service: one pull on session start, then a fixed cadence, plus
// out-of-band refreshes requested after mutations.
package syncer

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"netbank-client/internal/domain"
)

// DefaultInterval is the periodic pull cadence.
const DefaultInterval = 10 * time.Second

// Source is the slice of the remote service the syncer pulls from.
type Source interface {
	FetchAccount(ctx context.Context, accountNumber string) (*domain.Account, error)
	FetchTransactions(ctx context.Context, iban string) ([]domain.Transaction, error)
	FetchSavedRecipients(ctx context.Context, userID string) ([]domain.SavedRecipient, error)
}

// Syncer owns the three cached views. It is their only writer; everything
// else reads snapshots. A sync cycle pulls all three concurrently and
// applies the results as one atomic bundle, and only when every pull
// succeeded — a partial failure leaves all three views untouched.
type Syncer struct {
	src      Source
	interval time.Duration
	log      *log.Logger

	mu           sync.Mutex
	account      *domain.Account
	transactions []domain.Transaction
	recipients   []domain.SavedRecipient

	refresh chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New builds a Syncer over the given source. A non-positive interval
// falls back to DefaultInterval.
func New(src Source, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Syncer{
		src:      src,
		interval: interval,
		log:      log.NewWithOptions(os.Stderr, log.Options{Prefix: "syncer"}),
		refresh:  make(chan struct{}, 1),
	}
}

// Start begins syncing for the given account identity: one immediate
// cycle, then the fixed cadence until Stop or context cancellation.
func (s *Syncer) Start(ctx context.Context, identity domain.Account) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("already running")
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.run(ctx, identity)
	}()
}

// Stop cancels the periodic schedule and waits for the sync loop to exit.
// Idempotent. Results of a cycle still in flight are discarded, never
// applied to the stopped syncer.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done
}

// Refresh requests one extra pull outside the fixed cadence, without
// resetting the interval. Never blocks; coalesces with a pending request.
func (s *Syncer) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Account returns the cached account snapshot, if one has been pulled.
func (s *Syncer) Account() (domain.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return domain.Account{}, false
	}
	return *s.account, true
}

// Transactions returns a copy of the cached transaction history.
func (s *Syncer) Transactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Recipients returns a copy of the cached saved recipients.
func (s *Syncer) Recipients() []domain.SavedRecipient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SavedRecipient, len(s.recipients))
	copy(out, s.recipients)
	return out
}

func (s *Syncer) run(ctx context.Context, identity domain.Account) {
	s.syncOnce(ctx, identity)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx, identity)
		case <-s.refresh:
			s.syncOnce(ctx, identity)
		}
	}
}

// syncOnce pulls the three views concurrently. A failure in any pull, or
// teardown racing the cycle, leaves the cached views as they were; the
// session keeps running on stale data.
func (s *Syncer) syncOnce(ctx context.Context, identity domain.Account) {
	var (
		wg           sync.WaitGroup
		account      *domain.Account
		transactions []domain.Transaction
		recipients   []domain.SavedRecipient
		accountErr   error
		txErr        error
		recipientErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		account, accountErr = s.src.FetchAccount(ctx, identity.AccountNumber)
	}()
	go func() {
		defer wg.Done()
		transactions, txErr = s.src.FetchTransactions(ctx, identity.IBAN)
	}()
	go func() {
		defer wg.Done()
		recipients, recipientErr = s.src.FetchSavedRecipients(ctx, identity.ID)
	}()
	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	for _, err := range []error{accountErr, txErr, recipientErr} {
		if err != nil {
			s.log.Warn("sync cycle failed, keeping previous views", "err", err)
			return
		}
	}

	s.mu.Lock()
	s.account = account
	s.transactions = transactions
	s.recipients = recipients
	s.mu.Unlock()
	s.log.Debug("synced views",
		"transactions", len(transactions),
		"recipients", len(recipients),
		"balance", account.Balance,
	)
}
