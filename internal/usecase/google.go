package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pattadonj/member-auth-api/internal/model"
	"github.com/pattadonj/member-auth-api/internal/repository"
	"github.com/pattadonj/member-auth-api/shared/auth"
	"github.com/pattadonj/member-auth-api/shared/provider"
)

// GoogleAuthUsecase defines the business logic for Google sign-in callbacks.
type GoogleAuthUsecase interface {
	// SignIn finds or creates the account for a provider-verified profile
	// and issues a session token. Unverified accounts get a verification
	// email; the result tells the caller where to send the user next.
	SignIn(ctx context.Context, profile provider.GoogleProfile) (*GoogleSignInResult, error)
}

// GoogleSignInResult is the outcome of a Google sign-in. Verified reports the
// account's current verification state; unverified accounts should land on
// the verification-pending page.
type GoogleSignInResult struct {
	Token             string
	Email             string
	Verified          bool
	DeliverySucceeded bool
}

type googleAuthUsecase struct {
	accountRepo repository.AccountRepository
	jwtAuth     auth.JWTAuthenticator
	mailer      VerificationMailer
	logger      *zerolog.Logger
}

// NewGoogleAuthUsecase creates a new instance of GoogleAuthUsecase.
func NewGoogleAuthUsecase(
	accountRepo repository.AccountRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer VerificationMailer,
	logger *zerolog.Logger,
) GoogleAuthUsecase {
	return &googleAuthUsecase{
		accountRepo: accountRepo,
		jwtAuth:     jwtAuth,
		mailer:      mailer,
		logger:      logger,
	}
}

func (u *googleAuthUsecase) SignIn(ctx context.Context, profile provider.GoogleProfile) (*GoogleSignInResult, error) {
	created := false

	account, err := u.accountRepo.GetAccountByGoogleID(ctx, profile.ID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		code, err := generateVerificationCode()
		if err != nil {
			return nil, err
		}

		account, err = u.accountRepo.CreateAccount(ctx, &model.Account{
			FirstName:                 profile.GivenName,
			LastName:                  profile.FamilyName,
			Email:                     profile.Email,
			GoogleID:                  profile.ID,
			Verified:                  false,
			VerificationCode:          code,
			VerificationCodeExpiresAt: verificationCodeExpiry(),
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrEmailAlreadyExists
			}

			return nil, err
		}

		created = true
	}

	token, err := u.jwtAuth.GenerateSessionToken(account.ID.Hex(), account.Email)
	if err != nil {
		return nil, err
	}

	result := &GoogleSignInResult{
		Token:             token,
		Email:             account.Email,
		Verified:          account.Verified,
		DeliverySucceeded: true,
	}

	if account.Verified {
		return result, nil
	}

	// A repeat callback against a still-unverified account invalidates the
	// old code with a fresh one. Brand-new accounts already carry one.
	if !created {
		code, err := generateVerificationCode()
		if err != nil {
			return nil, err
		}

		expiry := verificationCodeExpiry()
		account, err = u.accountRepo.UpdateAccount(ctx, account.ID.Hex(), repository.UpdateAccountParams{
			VerificationCode:          &code,
			VerificationCodeExpiresAt: &expiry,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := u.mailer.SendVerificationEmail(account.Email, account.VerificationCode, account.FirstName); err != nil {
		u.logger.Error().Err(err).Str("email", account.Email).Msg("failed to send verification email")
		result.DeliverySucceeded = false
	}

	return result, nil
}
