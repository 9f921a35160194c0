package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"netbank-client/internal/domain"
	"netbank-client/internal/syncer"
	"netbank-client/internal/timer"
)

var (
	// ErrSessionActive is returned when activating while a session is
	// already running; one session per client instance.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoSession is returned by operations that need an active session.
	ErrNoSession = errors.New("no active session")
)

// Remote is the slice of the remote service the controller itself needs.
type Remote interface {
	DeleteAccount(ctx context.Context, userID string) error
}

// Controller drives the Anonymous/Active state machine. Activation starts
// the synchronizer and the inactivity timer; any way out of Active —
// manual logout, inactivity timeout, account deletion — funnels through
// Logout, which is idempotent so a timeout racing a manual logout runs
// teardown exactly once.
type Controller struct {
	remote Remote
	syncer *syncer.Syncer
	timer  *timer.Timer
	log    *log.Logger

	mu      sync.Mutex
	current *Session
}

// New builds a Controller. The inactivity timeout tears the session down
// as an atomic follow-on effect of firing.
func New(remote Remote, sy *syncer.Syncer, idleTimeout time.Duration) *Controller {
	c := &Controller{
		remote: remote,
		syncer: sy,
		log:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "session"}),
	}
	c.timer = timer.New(idleTimeout, func() {
		c.log.Info("logging out after inactivity")
		c.Logout()
	})
	return c
}

// Activate transitions Anonymous → Active for the given account: the
// session becomes the process-wide current session, the synchronizer
// starts pulling and the inactivity countdown begins.
func (c *Controller) Activate(account domain.Account) (*Session, error) {
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return nil, ErrSessionActive
	}
	sess := newSession(account)
	c.current = sess
	c.mu.Unlock()

	c.syncer.Start(context.Background(), account)
	c.timer.Start()
	c.log.Info("session started", "user_id", account.ID)
	return sess, nil
}

// Logout transitions Active → Anonymous. Safe to call at any time, from
// any goroutine, any number of times.
func (c *Controller) Logout() {
	c.mu.Lock()
	sess := c.current
	c.current = nil
	c.mu.Unlock()
	if sess == nil {
		return
	}

	sess.end()
	c.timer.Stop()
	c.syncer.Stop()
	c.log.Info("session ended", "user_id", sess.Account().ID)
}

// Current returns the active session, or nil when anonymous.
func (c *Controller) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Touch records a user activity event, deferring the inactivity timeout.
func (c *Controller) Touch() {
	c.timer.Touch()
}

// Remaining returns the seconds left until automatic logout.
func (c *Controller) Remaining() int {
	return c.timer.Remaining()
}

// DeleteAccount deletes the account remotely and, on success, ends the
// session. A failed deletion leaves the session running.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	sess := c.Current()
	if sess == nil {
		return ErrNoSession
	}
	if err := c.remote.DeleteAccount(ctx, sess.Account().ID); err != nil {
		return fmt.Errorf("account deletion failed: %w", err)
	}
	c.Logout()
	return nil
}
