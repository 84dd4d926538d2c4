package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session is an authenticated client. Session tokens are not refreshed; a
// new Login is required once ExpiresAt passes.
type Session struct {
	client *Client

	Token     string
	ExpiresAt time.Time
	Account   PublicAccount
}

// NewSession wraps an existing session token.
func (c *Client) NewSession(token string, expiresAt time.Time, account PublicAccount) *Session {
	return &Session{client: c, Token: token, ExpiresAt: expiresAt, Account: account}
}

func (s *Session) do(ctx context.Context, method, path string, in, out any, want int) error {
	return s.client.do(ctx, method, path,
		map[string]string{"Authorization": "Bearer " + s.Token}, in, out, want)
}

// Me returns the current session's account.
func (s *Session) Me(ctx context.Context) (*MeResponse, error) {
	var out MeResponse
	if err := s.do(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session. It fails with shift_open while the account has an
// unremitted shift.
func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/v1/logout", nil, nil, http.StatusNoContent)
}

// SetSecurityQuestion replaces the caller's security question and answer.
func (s *Session) SetSecurityQuestion(ctx context.Context, questionID int, answer string) error {
	return s.do(ctx, http.MethodPut, "/v1/me/security-question",
		SetSecurityQuestionRequest{QuestionID: questionID, Answer: answer}, nil, http.StatusNoContent)
}

// CreateAccount creates an account. Requires an admin session.
func (s *Session) CreateAccount(ctx context.Context, req CreateAccountRequest) (*PublicAccount, error) {
	var out PublicAccount
	if err := s.do(ctx, http.MethodPost, "/v1/admin/accounts", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Unlock clears lockout state for accountID. Requires an admin session.
func (s *Session) Unlock(ctx context.Context, accountID, realm string) error {
	return s.do(ctx, http.MethodPost, "/v1/admin/accounts/"+url.PathEscape(accountID)+"/unlock",
		UnlockRequest{Realm: realm}, nil, http.StatusNoContent)
}

// IssueTicket issues a PIN reset ticket. Requires an admin session.
func (s *Session) IssueTicket(ctx context.Context, accountID string) (*TicketResponse, error) {
	var out TicketResponse
	err := s.do(ctx, http.MethodPost, "/v1/admin/accounts/"+url.PathEscape(accountID)+"/tickets",
		nil, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
