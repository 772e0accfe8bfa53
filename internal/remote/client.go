// Package remote is the stateless request/response gateway to the banking
// authority. Each call transmits at most once per invocation: the calls are
// side-effect-bearing on the far side and there is no idempotency key on
// this wire, so nothing here ever retries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/utils"
)

const statusSuccess = "success"

// RegisterInput carries the validated registration fields for the wire.
type RegisterInput struct {
	Name          string
	Username      string
	Email         string
	Password      string
	PhoneNumber   string
	AccountNumber string
}

// Client is the remote authority contract.
type Client interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, input RegisterInput) error
	FetchProfile(ctx context.Context, userID string) (model.Profile, error)
	FetchHistory(ctx context.Context, userID string) ([]model.Transaction, error)
	Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error)
}

// HTTPClient talks JSON over HTTP(S) to the authority.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger.Named("remote"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status  string           `json:"status"`
	UserID  *json.RawMessage `json:"userId"`
	Message string           `json:"message"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.post(ctx, "/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Status != statusSuccess {
		return "", &RejectionError{Message: messageOr(resp.Message, "Invalid credentials")}
	}
	if resp.UserID == nil {
		return "", ErrMalformedResponse
	}
	return decodeUserID(*resp.UserID)
}

type registerRequest struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	PhoneNumber   string `json:"phoneNumber"`
	AccountNumber string `json:"accountNumber"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *HTTPClient) Register(ctx context.Context, input RegisterInput) error {
	var resp statusResponse
	err := c.post(ctx, "/register", registerRequest{
		Name:          input.Name,
		Username:      input.Username,
		Email:         input.Email,
		Password:      input.Password,
		PhoneNumber:   input.PhoneNumber,
		AccountNumber: input.AccountNumber,
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Status != statusSuccess {
		return &RejectionError{Message: messageOr(resp.Message, "Unknown registration error")}
	}
	return nil
}

type profileResponse struct {
	Status string `json:"status"`
	User   *struct {
		Name          string   `json:"name"`
		AccountNumber string   `json:"accountNumber"`
		Email         string   `json:"email"`
		PhoneNumber   string   `json:"phoneNumber"`
		Balance       *float64 `json:"balance"`
	} `json:"user"`
	Message string `json:"message"`
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	var resp profileResponse
	if err := c.get(ctx, "/users/"+userID, &resp); err != nil {
		return model.Profile{}, err
	}
	if resp.Status != statusSuccess {
		return model.Profile{}, &RejectionError{Message: messageOr(resp.Message, "User not found")}
	}
	if resp.User == nil || resp.User.Balance == nil {
		return model.Profile{}, ErrMalformedResponse
	}
	return model.Profile{
		Name:          resp.User.Name,
		AccountNumber: resp.User.AccountNumber,
		Email:         resp.User.Email,
		PhoneNumber:   resp.User.PhoneNumber,
		BalanceCents:  utils.CentsFromDecimal(*resp.User.Balance),
	}, nil
}

type historyResponse struct {
	Status       string `json:"status"`
	Transactions []struct {
		OtherPartyName string  `json:"otherPartyName"`
		Amount         float64 `json:"amount"`
		Type           string  `json:"type"`
		Timestamp      string  `json:"timestamp"`
	} `json:"transactions"`
	Message string `json:"message"`
}

// FetchHistory returns the history snapshot in backend order. The client
// never re-sorts it.
func (c *HTTPClient) FetchHistory(ctx context.Context, userID string) ([]model.Transaction, error) {
	var resp historyResponse
	if err := c.get(ctx, "/users/"+userID+"/transactions", &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusSuccess {
		return nil, &RejectionError{Message: messageOr(resp.Message, "Failed to fetch history")}
	}

	txs := make([]model.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		direction := model.DirectionReceived
		if t.Type == string(model.DirectionSent) {
			direction = model.DirectionSent
		}
		txs = append(txs, model.Transaction{
			CounterpartyName: t.OtherPartyName,
			AmountCents:      utils.CentsFromDecimal(t.Amount),
			Direction:        direction,
			Timestamp:        t.Timestamp,
		})
	}
	return txs, nil
}

type transferRequest struct {
	RecipientAccount string  `json:"recipientAccount"`
	Amount           float64 `json:"amount"`
}

type transferResponse struct {
	Status     string   `json:"status"`
	NewBalance *float64 `json:"newBalance"`
	Message    string   `json:"message"`
}

func (c *HTTPClient) Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error) {
	var resp transferResponse
	err := c.post(ctx, "/transfer", transferRequest{
		RecipientAccount: recipientAccount,
		Amount:           utils.DecimalFromCents(amountCents),
	}, &resp)
	if err != nil {
		return 0, err
	}
	if resp.Status != statusSuccess {
		return 0, &RejectionError{Message: messageOr(resp.Message, "Transfer failed")}
	}
	if resp.NewBalance == nil {
		return 0, ErrMalformedResponse
	}
	return utils.CentsFromDecimal(*resp.NewBalance), nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(payload), out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

func decodeUserID(raw json.RawMessage) (string, error) {
	// The authority sends a numeric id; tolerate a quoted one.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return "", ErrMalformedResponse
		}
		return asString, nil
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10), nil
	}
	return "", ErrMalformedResponse
}
