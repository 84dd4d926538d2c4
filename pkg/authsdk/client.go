package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the unauthenticated tillauth endpoints.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client with a 10s timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends in as JSON (when non-nil) and decodes the response into out (when
// non-nil). Any status other than want is returned as *APIError.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	headers map[string]string,
	in, out any,
	want int,
) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return parseErrorResponse(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Precheck reports login mode and lock state for identifier.
func (c *Client) Precheck(ctx context.Context, identifier, realm string) (*PrecheckResponse, error) {
	var out PrecheckResponse
	err := c.do(ctx, http.MethodPost, "/v1/login/precheck", nil,
		PrecheckRequest{Identifier: identifier, Realm: realm}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns a Session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/login", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSession(out.Token, out.ExpiresAt, out.Account), nil
}

// StartEmailRecovery issues a recovery code. A 429 cooldown_active error
// carries the pending code's expiry.
func (c *Client) StartEmailRecovery(ctx context.Context, email string) (*EmailRecoveryResponse, error) {
	return c.emailRecovery(ctx, "/v1/recovery/email/start", email)
}

// ResendEmailRecovery behaves exactly like StartEmailRecovery.
func (c *Client) ResendEmailRecovery(ctx context.Context, email string) (*EmailRecoveryResponse, error) {
	return c.emailRecovery(ctx, "/v1/recovery/email/resend", email)
}

func (c *Client) emailRecovery(ctx context.Context, path, email string) (*EmailRecoveryResponse, error) {
	var out EmailRecoveryResponse
	err := c.do(ctx, http.MethodPost, path, nil, EmailRecoveryRequest{Email: email}, &out, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyRecoveryCode exchanges an emailed code for a reset token.
func (c *Client) VerifyRecoveryCode(ctx context.Context, email, code string) (*ResetTokenResponse, error) {
	var out ResetTokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/recovery/email/verify", nil,
		VerifyCodeRequest{Email: email, Code: code}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StartSecurityQuestion opens a security-question session.
func (c *Client) StartSecurityQuestion(ctx context.Context, identifier, realm string) (*SecurityQuestionStartResponse, error) {
	var out SecurityQuestionStartResponse
	err := c.do(ctx, http.MethodPost, "/v1/recovery/security-question/start", nil,
		SecurityQuestionStartRequest{Identifier: identifier, Realm: realm}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySecurityQuestion submits answers and returns a reset token on success.
func (c *Client) VerifySecurityQuestion(ctx context.Context, token string, answers ...SecurityAnswer) (*ResetTokenResponse, error) {
	var out ResetTokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/recovery/security-question/verify", nil,
		SecurityQuestionVerifyRequest{Token: token, Answers: answers}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword applies a new secret with a reset token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newSecret string) error {
	return c.do(ctx, http.MethodPost, "/v1/recovery/reset", nil,
		ResetPasswordRequest{ResetToken: resetToken, NewSecret: newSecret}, nil, http.StatusNoContent)
}

// VerifyTicket checks a PIN reset ticket without consuming it.
func (c *Client) VerifyTicket(ctx context.Context, accountID, code string) error {
	return c.do(ctx, http.MethodPost, "/v1/tickets/verify", nil,
		TicketVerifyRequest{AccountID: accountID, Code: code}, nil, http.StatusNoContent)
}

// RedeemTicket sets a new PIN with a ticket.
func (c *Client) RedeemTicket(ctx context.Context, accountID, code, newPIN string) error {
	return c.do(ctx, http.MethodPost, "/v1/tickets/redeem", nil,
		TicketRedeemRequest{AccountID: accountID, Code: code, NewPIN: newPIN}, nil, http.StatusNoContent)
}

// SecurityQuestions returns the question catalog.
func (c *Client) SecurityQuestions(ctx context.Context) (*SecurityQuestionsResponse, error) {
	var out SecurityQuestionsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/security-questions", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bootstrap creates the first admin account.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*PublicAccount, error) {
	var out PublicAccount
	err := c.do(ctx, http.MethodPost, "/v1/bootstrap",
		map[string]string{"X-Bootstrap-Token": token}, req, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness calls /livez.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness calls /readyz.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJWKS fetches the published verification keys.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	if err := c.do(ctx, http.MethodGet, "/.well-known/jwks.json", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
