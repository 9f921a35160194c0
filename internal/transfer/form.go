// Package transfer runs the money-transfer side of the client: the form
// state with its saved-recipient selection, the submission pipeline, and
// the saved-recipient manager.
package transfer

import (
	"sync"

	"netbank-client/internal/domain"
	"netbank-client/internal/format"
)

// Input is one transfer attempt as entered by the user. Amount stays a
// string here; it is parsed only at submission, after the entry mask has
// had its say.
type Input struct {
	IBAN        string
	FirstName   string
	LastName    string
	Amount      string
	Description string
}

// Form holds the transfer form fields and the explicit "following a saved
// selection" flag. Selecting a saved recipient populates IBAN and both
// names atomically from that record; manually editing any of the three
// detaches the selection so later edits never re-snap to stale saved
// values.
type Form struct {
	mu         sync.Mutex
	in         Input
	selectedID string
}

// NewForm returns an empty transfer form.
func NewForm() *Form {
	return &Form{}
}

// SetIBAN sets the destination IBAN and detaches any saved selection.
func (f *Form) SetIBAN(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.IBAN = v
	f.selectedID = ""
}

// SetFirstName sets the recipient first name and detaches any saved
// selection.
func (f *Form) SetFirstName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.FirstName = v
	f.selectedID = ""
}

// SetLastName sets the recipient last name and detaches any saved
// selection.
func (f *Form) SetLastName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.LastName = v
	f.selectedID = ""
}

// SetAmount applies one amount edit through the entry mask. Rejected
// edits leave the field unchanged and return false.
func (f *Form) SetAmount(v string) bool {
	if !format.ValidAmountInput(v) {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.Amount = v
	return true
}

// SetDescription sets the optional description.
func (f *Form) SetDescription(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.Description = v
}

// SelectRecipient populates IBAN and both name fields from one saved
// recipient record and marks the form as following that selection.
func (f *Form) SelectRecipient(r domain.SavedRecipient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.IBAN = r.IBAN
	f.in.FirstName = r.FirstName
	f.in.LastName = r.LastName
	f.selectedID = r.ID
}

// ClearSelection drops the saved selection and empties the fields it
// populated.
func (f *Form) ClearSelection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in.IBAN = ""
	f.in.FirstName = ""
	f.in.LastName = ""
	f.selectedID = ""
}

// FollowingSaved reports whether the form is still following a saved
// recipient selection.
func (f *Form) FollowingSaved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedID != ""
}

// Values returns a snapshot of the current form input.
func (f *Form) Values() Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.in
}

// Reset empties the whole form, selection included.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in = Input{}
	f.selectedID = ""
}

// OfferSave reports whether the save-recipient affordance should be
// offered: the entered recipient is IBAN-valid, fully named, and its
// normalized IBAN does not match any existing saved recipient's. Names
// are deliberately ignored in the duplicate check.
func (f *Form) OfferSave(saved []domain.SavedRecipient) bool {
	in := f.Values()
	if in.FirstName == "" || in.LastName == "" || !format.ValidIBAN(in.IBAN) {
		return false
	}
	entered := format.NormalizeIBAN(in.IBAN)
	for _, r := range saved {
		if format.NormalizeIBAN(r.IBAN) == entered {
			return false
		}
	}
	return true
}
