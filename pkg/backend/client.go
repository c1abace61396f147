// Package backend is the HTTP client for the crowdfunding API: campaign listing
// and creation, donations, and account sign-in/sign-up.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fundspark/pkg/models"
)

// ErrRequestFailed matches every failed backend call. Connectivity problems,
// timeouts and backend-reported failures are not distinguished.
var ErrRequestFailed = errors.New("backend request failed")

// Error describes one failed call. Only Op and Status are meant for logs; users
// get a generic message.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("backend ")
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrRequestFailed }

// SuccessfulLogin is the message the backend sends for a valid sign-in.
const SuccessfulLogin = "Login successful!"

// SignInKind classifies a sign-in reply.
type SignInKind int

const (
	SignInRejected SignInKind = iota
	SignInSucceeded
)

// SignInResult is the structured outcome of a sign-in attempt.
type SignInResult struct {
	Kind    SignInKind
	Message string
}

// OK reports whether the credentials were accepted.
func (r SignInResult) OK() bool { return r.Kind == SignInSucceeded }

// Options configures the Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Zero leaves requests unbounded
	// so the backend's own behaviour is inherited.
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Client performs HTTP calls to the crowdfunding backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("backend: invalid base url: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "backend").Logger(),
	}, nil
}

// ListCampaigns fetches every campaign.
func (c *Client) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	const op = "list campaigns"
	status, body, err := c.do(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, c.fail(op, 0, err)
	}
	if !isSuccess(status) {
		return nil, c.failStatus(op, status, body)
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal(body, &campaigns); err != nil {
		return nil, c.fail(op, status, fmt.Errorf("decode campaigns: %w", err))
	}
	if campaigns == nil {
		campaigns = []models.Campaign{}
	}
	return campaigns, nil
}

// CreateCampaign creates a campaign and returns it with its assigned id.
func (c *Client) CreateCampaign(ctx context.Context, req models.CreateCampaignRequest) (*models.Campaign, error) {
	const op = "create campaign"
	status, body, err := c.do(ctx, http.MethodPost, "/api/projects", req)
	if err != nil {
		return nil, c.fail(op, 0, err)
	}
	if !isSuccess(status) {
		return nil, c.failStatus(op, status, body)
	}

	var created models.Campaign
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, c.fail(op, status, fmt.Errorf("decode campaign: %w", err))
	}
	return &created, nil
}

// RecordDonation records a donation against one campaign and returns the
// backend's confirmation message.
func (c *Client) RecordDonation(ctx context.Context, campaignID string, d models.Donation) (string, error) {
	const op = "record donation"
	path := "/api/donations/" + url.PathEscape(campaignID)
	status, body, err := c.do(ctx, http.MethodPost, path, d)
	if err != nil {
		return "", c.fail(op, 0, err)
	}
	if !isSuccess(status) {
		return "", c.failStatus(op, status, body)
	}
	return decodeMessage(body).Message, nil
}

// SignIn submits credentials. The returned error is reserved for calls that
// produced no usable reply; a reply that does not accept the credentials is a
// SignInRejected result.
func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (SignInResult, error) {
	const op = "sign in"
	status, body, err := c.do(ctx, http.MethodPost, "/api/auth/signin", req)
	if err != nil {
		return SignInResult{}, c.fail(op, 0, err)
	}

	msg := decodeMessage(body)
	result := SignInResult{Kind: SignInRejected, Message: msg.Message}
	switch {
	case !isSuccess(status):
	case msg.Success != nil:
		if *msg.Success {
			result.Kind = SignInSucceeded
		}
	case msg.Message == SuccessfulLogin:
		result.Kind = SignInSucceeded
	}

	if result.Kind == SignInRejected {
		c.logger.Info().Int("status", status).Msg("sign in rejected")
	}
	return result, nil
}

// SignUp registers an account and returns the backend's message.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (string, error) {
	const op = "sign up"
	status, body, err := c.do(ctx, http.MethodPost, "/api/auth/signup", req)
	if err != nil {
		return "", c.fail(op, 0, err)
	}
	if !isSuccess(status) {
		return "", c.failStatus(op, status, body)
	}
	return decodeMessage(body).Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) fail(op string, status int, err error) error {
	c.logger.Warn().Err(err).Str("op", op).Int("status", status).Msg("backend call failed")
	return &Error{Op: op, Status: status, Err: err}
}

func (c *Client) failStatus(op string, status int, body []byte) error {
	msg := decodeMessage(body).Message
	c.logger.Warn().Str("op", op).Int("status", status).Str("message", msg).Msg("backend call failed")
	return &Error{Op: op, Status: status, Message: msg}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

type message struct {
	Message string
	Success *bool
}

// decodeMessage accepts plain text, a JSON string, or an object with "message"
// (or "error") and an optional boolean "success". Plain text is returned as
// sent; surrounding whitespace only matters for telling JSON apart.
func decodeMessage(body []byte) message {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return message{}
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return message{Message: s}
		}
	case '{':
		var obj struct {
			Message *string `json:"message"`
			Error   *string `json:"error"`
			Success *bool   `json:"success"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			m := message{Success: obj.Success}
			switch {
			case obj.Message != nil:
				m.Message = *obj.Message
			case obj.Error != nil:
				m.Message = *obj.Error
			}
			return m
		}
	}
	return message{Message: string(body)}
}
