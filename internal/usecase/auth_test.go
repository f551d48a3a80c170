package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattadonj/member-auth-api/shared/auth"
	"github.com/pattadonj/member-auth-api/shared/security"
)

var codePattern = regexp.MustCompile(`^[1-9]\d{5}$`)

func newTestJWTAuth() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator("test-secret", "member-auth-api", 168*time.Hour)
}

func validRegisterParams() RegisterParams {
	return RegisterParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "a@b.com",
		Phone:     "0812345678",
		Password:  "Abcd1234!",
	}
}

func TestRegister_CreatesUnverifiedAccountWithCode(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	mail := &fakeMailer{}
	jwtAuth := newTestJWTAuth()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, jwtAuth, mail, &nop)

	before := time.Now()
	result, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	assert.True(t, result.RequiresVerification)
	assert.True(t, result.DeliverySucceeded)
	assert.Equal(t, "a@b.com", result.Email)

	claims, err := jwtAuth.ValidateSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)

	account, err := repo.GetAccountByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, account.ID.Hex())
	assert.False(t, account.Verified)
	assert.Regexp(t, codePattern, account.VerificationCode)
	assert.NotEqual(t, "Abcd1234!", account.PasswordHash)

	// Expiry is one hour out from creation.
	assert.WithinDuration(t, before.Add(time.Hour), account.VerificationCodeExpiresAt, 5*time.Second)

	require.Equal(t, 1, mail.sentCount())
	assert.Equal(t, account.VerificationCode, mail.lastSent().code)
	assert.Equal(t, "Ada", mail.lastSent().firstName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	mail := &fakeMailer{}
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, newTestJWTAuth(), mail, &nop)

	_, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	_, err = u.Register(context.Background(), validRegisterParams())
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, 1, repo.count(), "duplicate registration must not create an account")
}

func TestRegister_MailFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	mail := &fakeMailer{err: errors.New("smtp unreachable")}
	jwtAuth := newTestJWTAuth()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, jwtAuth, mail, &nop)

	result, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err, "delivery failure must not fail registration")

	assert.False(t, result.DeliverySucceeded)
	assert.True(t, result.RequiresVerification)
	assert.Equal(t, 1, repo.count())

	_, err = jwtAuth.ValidateSessionToken(result.Token)
	assert.NoError(t, err, "a valid session token is issued regardless of delivery outcome")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	jwtAuth := newTestJWTAuth()
	u := NewAuthUsecase(repo, jwtAuth, &fakeMailer{}, &nop)

	_, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	result, err := u.Login(context.Background(), LoginParams{Email: "a@b.com", Password: "Abcd1234!"})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", result.Account.Email)
	assert.False(t, result.Account.Verified, "login does not gate on verification state")

	claims, err := jwtAuth.ValidateSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, claims.UserID)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, newTestJWTAuth(), &fakeMailer{}, &nop)

	_, err := u.Login(context.Background(), LoginParams{Email: "nobody@b.com", Password: "Abcd1234!"})
	assert.ErrorIs(t, err, ErrEmailNotRegistered)
}

func TestLogin_IncorrectPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, newTestJWTAuth(), &fakeMailer{}, &nop)

	_, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	_, err = u.Login(context.Background(), LoginParams{Email: "a@b.com", Password: "Wrong1234!"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestLogin_GoogleOnlyAccountFailsSafely(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, newTestJWTAuth(), &fakeMailer{}, &nop)

	google := NewGoogleAuthUsecase(repo, newTestJWTAuth(), &fakeMailer{}, &nop)
	_, err := google.SignIn(context.Background(), testGoogleProfile())
	require.NoError(t, err)

	// No password hash stored; the attempt must fail like any bad password.
	_, err = u.Login(context.Background(), LoginParams{Email: "g@b.com", Password: "Abcd1234!"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	jwtAuth := newTestJWTAuth()
	u := NewAuthUsecase(repo, jwtAuth, &fakeMailer{}, &nop)

	result, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	claims, err := jwtAuth.ValidateSessionToken(result.Token)
	require.NoError(t, err)

	account, err := u.GetProfile(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", account.Email)

	_, err = u.GetProfile(context.Background(), "64b0c0ffee0000000000ffff")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// Password verification stays constant-time at the primitive level; this
// guards the flow against leaking which credential check failed.
func TestRegister_PasswordHashVerifiable(t *testing.T) {
	t.Parallel()

	repo := newFakeAccountRepo()
	nop := zerolog.Nop()
	u := NewAuthUsecase(repo, newTestJWTAuth(), &fakeMailer{}, &nop)

	_, err := u.Register(context.Background(), validRegisterParams())
	require.NoError(t, err)

	account, err := repo.GetAccountByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)

	ok, err := security.VerifyPassword("Abcd1234!", account.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
