package domain

// SavedRecipient is a user-curated shortcut mapping a display name to a
// destination IBAN. The canonical copy lives remotely; identifiers are
// assigned by the service, never locally.
type SavedRecipient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IBAN      string `json:"iban"`
}

// DisplayName returns the recipient's full name.
func (r SavedRecipient) DisplayName() string {
	return r.FirstName + " " + r.LastName
}
