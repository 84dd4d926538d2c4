package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
	"github.com/aussiebroadwan/tillauth/pkg/cryptox"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrSecurityAnswerMismatch = errors.New("security answer mismatch")
	ErrUnknownQuestion        = errors.New("unknown security question")
	ErrEmptyAnswer            = errors.New("security answer is empty")
)

// SecurityQuestionService verifies the single optional security question.
// Failures are counted under the realm's security-question key, separate
// from login failures.
type SecurityQuestionService struct {
	Store    store.Store
	Identity *IdentityService
	Ledger   *LockoutLedger
	Tokens   *TokenService
	Catalog  domain.QuestionCatalog
	Audit    audit.Recorder
	Clock    Clock
}

func (s *SecurityQuestionService) catalog() domain.QuestionCatalog {
	if len(s.Catalog) == 0 {
		return domain.DefaultQuestionCatalog()
	}
	return s.Catalog
}

// Questions returns the catalog.
func (s *SecurityQuestionService) Questions() domain.QuestionCatalog {
	return s.catalog()
}

// Start opens a question session. The whole catalog is offered so the
// account's configured question is not disclosed.
func (s *SecurityQuestionService) Start(ctx context.Context, identifier string, realm domain.Realm) (domain.IssuedToken, domain.QuestionCatalog, error) {
	account, _, err := s.Identity.Resolve(ctx, identifier)
	if err != nil {
		return domain.IssuedToken{}, nil, err
	}

	catalog := s.catalog()
	token, err := s.Tokens.IssuePurpose(ctx, domain.PurposeGrant{
		Purpose:     domain.PurposeSecurityQuestionSession,
		AccountID:   account.ID,
		Realm:       realm,
		QuestionIDs: catalog.IDs(),
	})
	if err != nil {
		return domain.IssuedToken{}, nil, err
	}
	return token, catalog, nil
}

// Verify checks the submitted answer and, on success, returns a
// password-reset token for the account.
func (s *SecurityQuestionService) Verify(
	ctx context.Context,
	sessionToken string,
	answers []domain.SecurityAnswerSubmission,
) (domain.IssuedToken, error) {
	l := slogx.FromContext(ctx)

	// 1. Structural checks; none of these touch the ledger
	claims, err := s.Tokens.VerifyPurpose(sessionToken, domain.PurposeSecurityQuestionSession)
	if err != nil || claims.Subject == "" {
		return domain.IssuedToken{}, ErrSecurityAnswerMismatch
	}
	if len(answers) != 1 {
		return domain.IssuedToken{}, ErrSecurityAnswerMismatch
	}
	submitted := answers[0]
	if !claims.PermitsQuestion(submitted.QuestionID) {
		return domain.IssuedToken{}, ErrSecurityAnswerMismatch
	}

	accountID := claims.Subject
	realm := domain.Realm(claims.Realm).SecurityQuestion()

	// 2. Refuse while the security-question realm is locked
	if err := s.Ledger.Check(ctx, accountID, realm); err != nil {
		return domain.IssuedToken{}, err
	}

	// 3. Compare against the stored pair
	matched, err := s.matches(ctx, accountID, submitted)
	if err != nil {
		return domain.IssuedToken{}, err
	}

	// 4. Mismatch counts against the security-question realm
	if !matched {
		if _, err := s.Ledger.RecordFailure(ctx, accountID, realm); err != nil {
			return domain.IssuedToken{}, err
		}
		l.Info("security answer mismatch", slog.String("account_id", accountID))
		record(ctx, s.Audit, audit.Event{
			Type:      audit.TypeSecurityAnswerFailed,
			AccountID: accountID,
			Realm:     realm.String(),
		})
		return domain.IssuedToken{}, ErrSecurityAnswerMismatch
	}

	// 5. Match clears the realm and grants a reset
	if err := s.Ledger.Clear(ctx, accountID, realm); err != nil {
		return domain.IssuedToken{}, err
	}
	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeSecurityAnswerPassed,
		AccountID: accountID,
		Realm:     realm.String(),
		Success:   true,
	})
	return s.Tokens.IssuePurpose(ctx, domain.PurposeGrant{
		Purpose:   domain.PurposePasswordReset,
		AccountID: accountID,
		Realm:     domain.Realm(claims.Realm),
	})
}

func (s *SecurityQuestionService) matches(ctx context.Context, accountID string, submitted domain.SecurityAnswerSubmission) (bool, error) {
	stored, err := s.Store.SecurityAnswers().Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if stored.QuestionID != submitted.QuestionID {
		return false, nil
	}

	if err := cryptox.VerifyPassword(NormalizeAnswer(submitted.Answer), stored.AnswerHash); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// SetAnswer stores the account's question and answer, replacing any
// previous pair.
func (s *SecurityQuestionService) SetAnswer(ctx context.Context, accountID string, questionID int, answer string) error {
	if !s.catalog().Has(questionID) {
		return ErrUnknownQuestion
	}
	normalized := NormalizeAnswer(answer)
	if normalized == "" {
		return ErrEmptyAnswer
	}

	hash, err := cryptox.HashPassword(normalized)
	if err != nil {
		return err
	}
	err = s.Store.SecurityAnswers().Upsert(ctx, domain.SecurityAnswer{
		AccountID:  accountID,
		QuestionID: questionID,
		AnswerHash: hash,
		UpdatedAt:  s.Clock.now(),
	})
	if err != nil {
		return err
	}

	record(ctx, s.Audit, audit.Event{
		Type:      audit.TypeSecurityAnswerSet,
		AccountID: accountID,
		Success:   true,
	})
	return nil
}

// NormalizeAnswer folds an answer to a canonical form: NFKC, case folded,
// surrounding space trimmed and inner runs of space collapsed.
func NormalizeAnswer(answer string) string {
	folded := cases.Fold().String(norm.NFKC.String(answer))
	return strings.Join(strings.Fields(folded), " ")
}
