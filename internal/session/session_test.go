package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netbank-client/internal/domain"
	"netbank-client/internal/syncer"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeSource) FetchAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &domain.Account{ID: "u1", AccountNumber: accountNumber, Balance: 1000}, nil
}

func (f *fakeSource) FetchTransactions(ctx context.Context, iban string) ([]domain.Transaction, error) {
	return nil, nil
}

func (f *fakeSource) FetchSavedRecipients(ctx context.Context, userID string) ([]domain.SavedRecipient, error) {
	return nil, nil
}

func (f *fakeSource) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRemote struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (f *fakeRemote) DeleteAccount(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("boom")
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func testAccount() domain.Account {
	return domain.Account{
		ID:            "u1",
		FirstName:     "Max",
		LastName:      "Mustermann",
		IBAN:          "DE89370400440532013000",
		AccountNumber: "1000001",
	}
}

func newController(remote Remote, idleTimeout time.Duration) (*Controller, *fakeSource) {
	src := &fakeSource{}
	return New(remote, syncer.New(src, time.Hour), idleTimeout), src
}

func TestActivateStartsSyncAndCountdown(t *testing.T) {
	c, src := newController(&fakeRemote{}, time.Hour)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)
	defer c.Logout()

	assert.True(t, sess.Alive())
	assert.Same(t, sess, c.Current())
	assert.Equal(t, ViewTransactions, sess.ActiveView())
	assert.Greater(t, c.Remaining(), 0)

	require.Eventually(t, func() bool { return src.fetches() >= 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestOnlyOneSessionAtATime(t *testing.T) {
	c, _ := newController(&fakeRemote{}, time.Hour)
	_, err := c.Activate(testAccount())
	require.NoError(t, err)
	defer c.Logout()

	_, err = c.Activate(testAccount())
	assert.ErrorIs(t, err, ErrSessionActive)
}

func TestLogoutIsIdempotent(t *testing.T) {
	c, _ := newController(&fakeRemote{}, time.Hour)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)

	c.Logout()
	c.Logout()

	assert.False(t, sess.Alive())
	assert.Nil(t, c.Current())

	// A new session can start after a clean teardown.
	sess2, err := c.Activate(testAccount())
	require.NoError(t, err)
	assert.True(t, sess2.Alive())
	c.Logout()
}

func TestInactivityTimeoutEndsSessionOnce(t *testing.T) {
	c, _ := newController(&fakeRemote{}, 200*time.Millisecond)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !sess.Alive() },
		2*time.Second, 10*time.Millisecond)
	assert.Nil(t, c.Current())

	// Manual logout racing the timeout must not error or re-run teardown.
	c.Logout()
}

func TestViewSwitchIgnoredAfterTeardown(t *testing.T) {
	c, _ := newController(&fakeRemote{}, time.Hour)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)

	sess.SetActiveView(ViewSendMoney)
	assert.Equal(t, ViewSendMoney, sess.ActiveView())

	c.Logout()
	sess.SetActiveView(ViewSavedRecipients)
	assert.Equal(t, ViewSendMoney, sess.ActiveView())
}

func TestDeleteAccountEndsSession(t *testing.T) {
	remote := &fakeRemote{}
	c, _ := newController(remote, time.Hour)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)

	require.NoError(t, c.DeleteAccount(context.Background()))
	assert.False(t, sess.Alive())
	assert.Equal(t, []string{"u1"}, remote.deleted)

	assert.ErrorIs(t, c.DeleteAccount(context.Background()), ErrNoSession)
}

func TestDeleteAccountFailureKeepsSession(t *testing.T) {
	remote := &fakeRemote{fail: true}
	c, _ := newController(remote, time.Hour)
	sess, err := c.Activate(testAccount())
	require.NoError(t, err)
	defer c.Logout()

	assert.Error(t, c.DeleteAccount(context.Background()))
	assert.True(t, sess.Alive())
}

func TestNoticesAutoClear(t *testing.T) {
	n := NewNotices(100 * time.Millisecond)
	n.Error("bad")
	n.Warn("careful")
	n.Success("done")

	errMsg, warning, success := n.Snapshot()
	assert.Equal(t, "bad", errMsg)
	assert.Equal(t, "careful", warning)
	assert.Equal(t, "done", success)

	require.Eventually(t, func() bool {
		errMsg, warning, success := n.Snapshot()
		return errMsg == "" && warning == "" && success == ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNoticesNewerMessageSurvivesOldExpiry(t *testing.T) {
	n := NewNotices(100 * time.Millisecond)
	n.Success("first")
	time.Sleep(60 * time.Millisecond)
	n.Success("second")

	// The first message's expiry passes; "second" must still be shown.
	time.Sleep(60 * time.Millisecond)
	_, _, success := n.Snapshot()
	assert.Equal(t, "second", success)
}

func TestNoticesClearAllAndStop(t *testing.T) {
	n := NewNotices(time.Hour)
	n.Error("bad")
	n.ClearAll()
	errMsg, _, _ := n.Snapshot()
	assert.Empty(t, errMsg)

	n.Stop()
	n.Success("ignored")
	_, _, success := n.Snapshot()
	assert.Empty(t, success)
}
