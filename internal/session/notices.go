package session

import (
	"sync"
	"time"
)

// DefaultNoticeTTL is how long a displayed message survives before it is
// auto-cleared.
const DefaultNoticeTTL = 5 * time.Second

// Notices is the transient message banner: independent error, warning and
// success slots, each auto-cleared after the TTL so stale banners do not
// persist across unrelated actions. A soft warning occupies its own slot
// and is shown alongside the success message, not instead of it.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	stopped bool

	err     string
	warning string
	success string

	// Per-slot epochs tie each expiry to the message that armed it, so an
	// expiry never wipes a newer message in the same slot.
	errEpoch     int
	warningEpoch int
	successEpoch int
}

// NewNotices builds a banner with the given TTL; non-positive falls back
// to DefaultNoticeTTL.
func NewNotices(ttl time.Duration) *Notices {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notices{ttl: ttl}
}

// Error displays an error message.
func (n *Notices) Error(msg string) {
	n.set(&n.err, &n.errEpoch, msg)
}

// Warn displays a warning message.
func (n *Notices) Warn(msg string) {
	n.set(&n.warning, &n.warningEpoch, msg)
}

// Success displays a success message.
func (n *Notices) Success(msg string) {
	n.set(&n.success, &n.successEpoch, msg)
}

// Snapshot returns the current error, warning and success messages.
func (n *Notices) Snapshot() (errMsg, warning, success string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err, n.warning, n.success
}

// ClearAll empties every slot immediately.
func (n *Notices) ClearAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err, n.warning, n.success = "", "", ""
	n.errEpoch++
	n.warningEpoch++
	n.successEpoch++
}

// Stop disables the banner; pending expiries become no-ops and further
// messages are dropped.
func (n *Notices) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	n.err, n.warning, n.success = "", "", ""
}

func (n *Notices) set(slot *string, epoch *int, msg string) {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	*slot = msg
	*epoch++
	armed := *epoch
	n.mu.Unlock()

	time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.stopped || *epoch != armed {
			return
		}
		*slot = ""
	})
}
