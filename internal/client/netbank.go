// Package client implements the HTTP JSON client for the remote banking
// service. It is the only component that talks to the network; everything
// else consumes it through narrow interfaces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"netbank-client/internal/domain"
)

// ErrRemote marks a structured rejection from the service (a non-OK
// status), as opposed to a transport failure.
var ErrRemote = errors.New("remote service error")

// TransferError is the service declining a transfer with success=false.
// Message is surfaced to the user verbatim when present.
type TransferError struct {
	Message string
}

func (e *TransferError) Error() string {
	if e.Message == "" {
		return "transfer rejected"
	}
	return e.Message
}

// Client talks to the remote banking service. The base URL includes the
// API prefix (e.g. "http://localhost:8080/api").
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	log        *log.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    u,
		log:        log.NewWithOptions(os.Stderr, log.Options{Prefix: "client"}),
	}, nil
}

// Login authenticates with username and password and returns the account.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.Account, error) {
	body := map[string]string{"username": username, "password": password}
	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &account, http.StatusOK); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	c.log.Info("logged in", "user_id", account.ID)
	return &account, nil
}

// Register creates a new account and returns it.
func (c *Client) Register(ctx context.Context, username, password, firstName, lastName string) (*domain.Account, error) {
	body := map[string]string{
		"username":  username,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	var account domain.Account
	if err := c.do(ctx, http.MethodPost, "/users/register", body, &account, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	c.log.Info("registered", "user_id", account.ID)
	return &account, nil
}

// FetchAccount pulls the current account record by account number.
func (c *Client) FetchAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	var account domain.Account
	path := "/users/number/" + url.PathEscape(accountNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &account, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	return &account, nil
}

// FetchTransactions pulls the transaction history for an IBAN.
func (c *Client) FetchTransactions(ctx context.Context, iban string) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	path := "/transactions/iban/" + url.PathEscape(iban)
	if err := c.do(ctx, http.MethodGet, path, nil, &transactions, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, nil
}

// FetchSavedRecipients pulls the user's saved recipients.
func (c *Client) FetchSavedRecipients(ctx context.Context, userID string) ([]domain.SavedRecipient, error) {
	var recipients []domain.SavedRecipient
	path := "/users/" + url.PathEscape(userID) + "/saved-recipients"
	if err := c.do(ctx, http.MethodGet, path, nil, &recipients, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to fetch saved recipients: %w", err)
	}
	return recipients, nil
}

// CreateTransfer submits a transfer. A response with success=false comes
// back as a *TransferError carrying the service's message; a soft warning
// rides along on the returned result's transaction.
func (c *Client) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	var result domain.TransferResult
	if err := c.do(ctx, http.MethodPost, "/transactions/transfer", req, &result, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}
	if !result.Success {
		return nil, &TransferError{Message: result.Message}
	}
	c.log.Info("transfer created", "to_iban", req.ToIBAN, "amount", req.Amount)
	return &result, nil
}

// SaveRecipient creates a saved recipient for the user.
func (c *Client) SaveRecipient(ctx context.Context, userID, recipientIBAN, firstName, lastName string) (*domain.SavedRecipient, error) {
	body := map[string]string{
		"recipientIban": recipientIBAN,
		"firstName":     firstName,
		"lastName":      lastName,
	}
	var recipient domain.SavedRecipient
	path := "/users/" + url.PathEscape(userID) + "/saved-recipients"
	if err := c.do(ctx, http.MethodPost, path, body, &recipient, http.StatusOK); err != nil {
		return nil, fmt.Errorf("failed to save recipient: %w", err)
	}
	c.log.Info("recipient saved", "iban", recipientIBAN)
	return &recipient, nil
}

// DeleteRecipient removes a saved recipient by IBAN.
func (c *Client) DeleteRecipient(ctx context.Context, userID, recipientIBAN string) error {
	path := "/users/" + url.PathEscape(userID) + "/saved-recipients/" + url.PathEscape(recipientIBAN)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("failed to delete recipient: %w", err)
	}
	c.log.Info("recipient deleted", "iban", recipientIBAN)
	return nil
}

// DeleteAccount deletes the user's account.
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	path := "/users/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusOK); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	c.log.Info("account deleted", "user_id", userID)
	return nil
}

// do sends one JSON request and decodes the response into out (when out is
// non-nil). Any status other than wantStatus is an ErrRemote.
func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%w: unexpected status %d", ErrRemote, resp.StatusCode)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error unmarshaling response body: %w", err)
	}
	return nil
}
