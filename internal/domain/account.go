// Package domain holds the data model shared by the client, the
// synchronizer and the transfer pipeline. All records are owned by the
// remote service; the structs here are read-only cached copies.
package domain

// Account is the authenticated user's bank account as reported by the
// remote service. The balance is whatever the service last computed; the
// client never does balance arithmetic of its own.
type Account struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	IBAN          string  `json:"iban"`
	AccountNumber string  `json:"accountNumber"`
	Balance       float64 `json:"balance"`
	Status        string  `json:"status"`
}

// DisplayName returns the account holder's full name.
func (a Account) DisplayName() string {
	return a.FirstName + " " + a.LastName
}
