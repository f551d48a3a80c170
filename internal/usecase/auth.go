package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/pattadonj/member-auth-api/internal/model"
	"github.com/pattadonj/member-auth-api/internal/repository"
	"github.com/pattadonj/member-auth-api/shared/auth"
	"github.com/pattadonj/member-auth-api/shared/security"
)

// AuthUsecase defines the interface for registration and login use cases.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)
	GetProfile(ctx context.Context, accountID string) (*model.Account, error)
}

// VerificationMailer dispatches verification codes by email. Flows treat
// delivery as fire-and-forget: a failure is logged and reported through the
// result, never propagated as a flow error.
type VerificationMailer interface {
	SendVerificationEmail(email, code, firstName string) error
}

// RegisterParams defines the parameters for account registration. They are
// validated for shape (email format, password complexity) at the HTTP
// boundary before reaching this flow.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// RegisterResult is the outcome of a successful registration. The account
// always starts unverified; DeliverySucceeded reports whether the
// verification email went out.
type RegisterResult struct {
	Token                string
	Email                string
	RequiresVerification bool
	DeliverySucceeded    bool
}

// LoginParams defines the parameters for account login.
type LoginParams struct {
	Email    string
	Password string
}

// AccountInfo is the public projection of an account.
type AccountInfo struct {
	ID       string
	Email    string
	Verified bool
}

// LoginResult is the outcome of a successful login. Login does not gate on
// verification state; callers enforce that separately where needed.
type LoginResult struct {
	Token   string
	Account AccountInfo
}

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotRegistered = errors.New("email not registered")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrAccountNotFound    = errors.New("account not found")
)

type authUsecase struct {
	accountRepo repository.AccountRepository
	jwtAuth     auth.JWTAuthenticator
	mailer      VerificationMailer
	logger      *zerolog.Logger
}

func NewAuthUsecase(
	accountRepo repository.AccountRepository,
	jwtAuth auth.JWTAuthenticator,
	mailer VerificationMailer,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		accountRepo: accountRepo,
		jwtAuth:     jwtAuth,
		mailer:      mailer,
		logger:      logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	// Existence check first for a better error message; the unique index on
	// email is what actually arbitrates concurrent registrations.
	if _, err := u.accountRepo.GetAccountByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	passwordHash, err := security.HashPassword(strings.TrimSpace(params.Password))
	if err != nil {
		return nil, err
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}

	account, err := u.accountRepo.CreateAccount(ctx, &model.Account{
		FirstName:                 params.FirstName,
		LastName:                  params.LastName,
		Email:                     params.Email,
		Phone:                     params.Phone,
		PasswordHash:              passwordHash,
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

	token, err := u.jwtAuth.GenerateSessionToken(account.ID.Hex(), account.Email)
	if err != nil {
		return nil, err
	}

	// Delivery failure does not roll back account creation; the account
	// exists unverified either way and the caller is told verification is
	// pending.
	delivered := true
	if err := u.mailer.SendVerificationEmail(account.Email, code, account.FirstName); err != nil {
		u.logger.Error().Err(err).Str("email", account.Email).Msg("failed to send verification email")
		delivered = false
	}

	return &RegisterResult{
		Token:                token,
		Email:                account.Email,
		RequiresVerification: true,
		DeliverySucceeded:    delivered,
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	account, err := u.accountRepo.GetAccountByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEmailNotRegistered
		}

		return nil, err
	}

	// Accounts created through Google sign-in have no password hash; the
	// compare treats that as a plain mismatch.
	if ok, err := security.VerifyPassword(strings.TrimSpace(params.Password), account.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrIncorrectPassword
	}

	token, err := u.jwtAuth.GenerateSessionToken(account.ID.Hex(), account.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		Account: AccountInfo{
			ID:       account.ID.Hex(),
			Email:    account.Email,
			Verified: account.Verified,
		},
	}, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, accountID string) (*model.Account, error) {
	account, err := u.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}
