package domain

type Direction int

const (
	In Direction = iota
	Out
)

// Transaction is one ledger entry as pulled from the remote service.
// Immutable once pulled; the client only ever submits a TransferRequest and
// lets the service turn it into one of these.
type Transaction struct {
	ID                string  `json:"id"`
	FromIBAN          string  `json:"fromIban"`
	ToIBAN            string  `json:"toIban"`
	FromFirstName     string  `json:"fromFirstName"`
	FromLastName      string  `json:"fromLastName"`
	ToFirstName       string  `json:"toFirstName"`
	ToLastName        string  `json:"toLastName"`
	FromAccountNumber string  `json:"fromAccountNumber,omitempty"`
	ToAccountNumber   string  `json:"toAccountNumber,omitempty"`
	Amount            float64 `json:"amount"`
	TransactionType   string  `json:"transactionType,omitempty"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	Warning           string  `json:"warning,omitempty"`
	TransactionDate   string  `json:"transactionDate"`
}

// Direction reports whether the transaction moved money out of or into the
// account identified by ownIBAN.
func (t Transaction) Direction(ownIBAN string) Direction {
	if t.FromIBAN == ownIBAN {
		return Out
	}
	return In
}

// Counterparty returns the display name of the other side of the
// transaction relative to ownIBAN.
func (t Transaction) Counterparty(ownIBAN string) string {
	if t.Direction(ownIBAN) == Out {
		return t.ToFirstName + " " + t.ToLastName
	}
	return t.FromFirstName + " " + t.FromLastName
}
