package domain

// TransferRequest is the ephemeral payload of one transfer submission.
// The IBAN must already be whitespace-normalized when it reaches the wire.
type TransferRequest struct {
	FromIBAN    string  `json:"fromIban"`
	ToIBAN      string  `json:"toIban"`
	ToFirstName string  `json:"toFirstName"`
	ToLastName  string  `json:"toLastName"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// TransferResult is the service's verdict on a transfer submission.
// Success with a non-empty Transaction.Warning is the soft-warning case:
// the transfer went through but the service flagged something.
type TransferResult struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}
