package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"netbank-client/internal/domain"
	"netbank-client/internal/format"
	"netbank-client/internal/session"
	"netbank-client/internal/syncer"
)

const (
	msgRecipientFields  = "Please fill in all recipient details"
	msgRecipientSaved   = "Recipient saved successfully!"
	msgRecipientRemoved = "Recipient removed"
	msgSaveFailed       = "Failed to save recipient"
	msgDeleteFailed     = "Failed to delete recipient"
)

// RecipientService is the slice of the remote service the recipient
// manager mutates through.
type RecipientService interface {
	SaveRecipient(ctx context.Context, userID, recipientIBAN, firstName, lastName string) (*domain.SavedRecipient, error)
	DeleteRecipient(ctx context.Context, userID, recipientIBAN string) error
}

// Recipients creates and deletes saved recipients. The displayed list
// always comes from the syncer's cached view, never from a create
// response's local echo; mutations just request a refresh.
type Recipients struct {
	src     RecipientService
	syncer  *syncer.Syncer
	notices *session.Notices
	log     *log.Logger
}

// NewRecipients builds a recipient manager.
func NewRecipients(src RecipientService, sy *syncer.Syncer, notices *session.Notices) *Recipients {
	return &Recipients{
		src:     src,
		syncer:  sy,
		notices: notices,
		log:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "recipients"}),
	}
}

// Save creates a saved recipient. Empty fields are rejected locally with
// no network call; a remote failure leaves the saved-recipient state
// untouched.
func (r *Recipients) Save(ctx context.Context, sess *session.Session, iban, firstName, lastName string) error {
	if iban == "" || firstName == "" || lastName == "" {
		r.notices.Error(msgRecipientFields)
		return fmt.Errorf("%w: missing recipient details", ErrValidation)
	}

	_, err := r.src.SaveRecipient(ctx, sess.Account().ID, format.StripSpaces(iban), firstName, lastName)
	if err != nil {
		if sess.Alive() {
			r.notices.Error(msgSaveFailed)
		}
		return fmt.Errorf("saving recipient failed: %w", err)
	}
	if !sess.Alive() {
		return nil
	}

	r.notices.Success(msgRecipientSaved)
	r.syncer.Refresh()
	return nil
}

// Delete removes a saved recipient by IBAN. Not undoable from the
// client's side.
func (r *Recipients) Delete(ctx context.Context, sess *session.Session, recipientIBAN string) error {
	if err := r.src.DeleteRecipient(ctx, sess.Account().ID, recipientIBAN); err != nil {
		if sess.Alive() {
			r.notices.Error(msgDeleteFailed)
		}
		return fmt.Errorf("deleting recipient failed: %w", err)
	}
	if !sess.Alive() {
		return nil
	}

	r.notices.Success(msgRecipientRemoved)
	r.syncer.Refresh()
	return nil
}
