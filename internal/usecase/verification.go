package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pattadonj/member-auth-api/internal/repository"
)

// VerificationUsecase defines the business logic for email verification.
type VerificationUsecase interface {
	// VerifyEmail checks a submitted code against the stored one and flips
	// the account to verified. Error precedence: unknown email, then code
	// mismatch, then expiry.
	VerifyEmail(ctx context.Context, params VerifyEmailParams) (*AccountInfo, error)
}

// VerifyEmailParams defines the parameters for email verification.
type VerifyEmailParams struct {
	Email string
	Code  string
}

var (
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationCodeExpired = errors.New("verification code has expired")
)

type verificationUsecase struct {
	accountRepo repository.AccountRepository
}

// NewVerificationUsecase creates a new instance of VerificationUsecase.
func NewVerificationUsecase(accountRepo repository.AccountRepository) VerificationUsecase {
	return &verificationUsecase{accountRepo: accountRepo}
}

func (u *verificationUsecase) VerifyEmail(ctx context.Context, params VerifyEmailParams) (*AccountInfo, error) {
	account, err := u.accountRepo.GetAccountByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	// Exact string match, no normalization. A cleared code never matches a
	// submitted one, so verification is not idempotent.
	if account.VerificationCode != params.Code {
		return nil, ErrInvalidVerificationCode
	}

	// A code expires at its expiry instant, inclusive.
	if account.VerificationCodeExpiresAt.IsZero() || !account.VerificationCodeExpiresAt.After(time.Now()) {
		return nil, ErrVerificationCodeExpired
	}

	verified := true
	clearedCode := ""
	clearedExpiry := time.Time{}
	updated, err := u.accountRepo.UpdateAccount(ctx, account.ID.Hex(), repository.UpdateAccountParams{
		Verified:                  &verified,
		VerificationCode:          &clearedCode,
		VerificationCodeExpiresAt: &clearedExpiry,
	})
	if err != nil {
		return nil, err
	}

	return &AccountInfo{
		ID:       updated.ID.Hex(),
		Email:    updated.Email,
		Verified: updated.Verified,
	}, nil
}
