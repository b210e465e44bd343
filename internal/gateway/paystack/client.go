package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freelance-booking/pkg/utils"
)

const (
	defaultBaseURL = "https://api.paystack.co"
	defaultTimeout = 10 * time.Second

	// StatusSuccess is the transaction status Paystack reports for a paid charge.
	StatusSuccess = "success"
	// EventChargeSuccess is the webhook event for a completed charge.
	EventChargeSuccess = "charge.success"
	// SignatureHeader carries the hex HMAC-SHA512 of the webhook body.
	SignatureHeader = "x-paystack-signature"
)

// ErrNotConfigured is returned when no secret key is set.
var ErrNotConfigured = errors.New("paystack secret key not configured")

// APIError is a non-success answer from Paystack, or a response whose
// status flag is false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack error (%d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether Paystack has no transaction for the reference.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusBadRequest
}

type Client struct {
	secretKey   string
	baseURL     string
	callbackURL string
	currency    string
	client      *http.Client
}

func NewClient(cfg utils.PaystackConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		secretKey:   cfg.SecretKey,
		baseURL:     baseURL,
		callbackURL: cfg.CallbackURL,
		currency:    cfg.Currency,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// Metadata travels with the transaction and comes back on verify.
type Metadata struct {
	BookingID   string `json:"bookingId,omitempty"`
	ServiceID   string `json:"serviceId,omitempty"`
	ServiceName string `json:"serviceName,omitempty"`
}

type InitializeParams struct {
	Email       string
	AmountMinor int64
	Reference   string
	Metadata    Metadata
}

type Authorization struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type Transaction struct {
	Reference     string
	Status        string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	PaidAt        *time.Time
	Metadata      Metadata
	Raw           json.RawMessage
}

// Paid reports whether the gateway considers the charge successful.
func (t *Transaction) Paid() bool {
	return t.Status == StatusSuccess
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Currency    string   `json:"currency,omitempty"`
	Reference   string   `json:"reference,omitempty"`
	CallbackURL string   `json:"callback_url,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"`
	Currency  string     `json:"currency"`
	PaidAt    *time.Time `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	// Paystack returns metadata as an object, or as "" / 0 when unset
	Metadata json.RawMessage `json:"metadata"`
}

func (c *Client) Initialize(ctx context.Context, p InitializeParams) (*Authorization, error) {
	req := initializeRequest{
		Email:       p.Email,
		Amount:      p.AmountMinor,
		Currency:    c.currency,
		Reference:   p.Reference,
		CallbackURL: c.callbackURL,
		Metadata:    p.Metadata,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var out initializeData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}

	return &Authorization{
		AuthorizationURL: out.AuthorizationURL,
		AccessCode:       out.AccessCode,
		Reference:        out.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	data, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	var out verifyData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	tx := &Transaction{
		Reference:     out.Reference,
		Status:        out.Status,
		AmountMinor:   out.Amount,
		Currency:      out.Currency,
		CustomerEmail: out.Customer.Email,
		PaidAt:        out.PaidAt,
		Raw:           data,
	}
	if len(out.Metadata) > 0 && out.Metadata[0] == '{' {
		// unknown keys and odd value types are not fatal
		_ = json.Unmarshal(out.Metadata, &tx.Metadata)
	}

	return tx, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return env.Data, nil
}

// ToMinorUnits converts a major-unit amount (naira) to the gateway's minor
// unit (kobo), rounding to the nearest unit.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

func ToMajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature Paystack would send for body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type Event struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode webhook event: %w", err)
	}
	return &ev, nil
}
