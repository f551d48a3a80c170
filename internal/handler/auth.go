package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pattadonj/member-auth-api/internal/config"
	"github.com/pattadonj/member-auth-api/internal/usecase"
	"github.com/pattadonj/member-auth-api/shared/auth"
	"github.com/pattadonj/member-auth-api/shared/provider"
)

const oauthStateCookieName = "oauth_state"

// GoogleProvider is the handshake surface the handler needs from the Google
// OAuth adapter.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*provider.GoogleProfile, error)
}

// AuthHTTPHandler wires the auth flows to the chi router. It owns request
// decoding, validation, cookie handling and the mapping of flow errors to
// HTTP responses; the flows themselves never see HTTP.
type AuthHTTPHandler struct {
	authUsecase         usecase.AuthUsecase
	verificationUsecase usecase.VerificationUsecase
	googleUsecase       usecase.GoogleAuthUsecase
	googleProvider      GoogleProvider
	jwtAuth             auth.JWTAuthenticator
	cfg                 *config.Config
	validate            *validator.Validate
	trans               ut.Translator
	logger              *zerolog.Logger
}

func NewAuthHTTPHandler(
	authUsecase usecase.AuthUsecase,
	verificationUsecase usecase.VerificationUsecase,
	googleUsecase usecase.GoogleAuthUsecase,
	googleProvider GoogleProvider,
	jwtAuth auth.JWTAuthenticator,
	cfg *config.Config,
	logger *zerolog.Logger,
) (*AuthHTTPHandler, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, err
	}

	return &AuthHTTPHandler{
		authUsecase:         authUsecase,
		verificationUsecase: verificationUsecase,
		googleUsecase:       googleUsecase,
		googleProvider:      googleProvider,
		jwtAuth:             jwtAuth,
		cfg:                 cfg,
		validate:            validate,
		trans:               trans,
		logger:              logger,
	}, nil
}

// RegisterRoutes mounts the auth endpoints on the router.
func (h *AuthHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/verify", h.Verify)
		r.Post("/logout", h.Logout)
		r.Get("/google", h.GoogleRedirect)
		r.Get("/google/callback", h.GoogleCallback)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)
			r.Get("/profile", h.Profile)
		})
	})
}

func (h *AuthHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Email already exists"})
			return
		}

		h.internalError(w, err, "failed to register account")
		return
	}

	h.setAuthCookie(w, result.Token)

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message:              "User created successfully. Please verify your email.",
		RequiresVerification: result.RequiresVerification,
		EmailDelivered:       result.DeliverySucceeded,
		RedirectURL:          "/verify-email?email=" + url.QueryEscape(result.Email),
	})
}

func (h *AuthHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailNotRegistered):
			writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Email not registered"})
		case errors.Is(err, usecase.ErrIncorrectPassword):
			writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Incorrect password"})
		default:
			h.internalError(w, err, "failed to log in")
		}
		return
	}

	h.setAuthCookie(w, result.Token)

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User: AccountInfo{
			ID:         result.Account.ID,
			Email:      result.Account.Email,
			IsVerified: result.Account.Verified,
		},
		RedirectURL: h.cfg.FrontendURL,
	})
}

func (h *AuthHTTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return
	}

	if req.Email == "" || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Email and code are required."})
		return
	}

	result, err := h.verificationUsecase.VerifyEmail(r.Context(), usecase.VerifyEmailParams{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccountNotFound):
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "User not found"})
		case errors.Is(err, usecase.ErrInvalidVerificationCode):
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid verification code"})
		case errors.Is(err, usecase.ErrVerificationCodeExpired):
			writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Verification code has expired"})
		default:
			h.internalError(w, err, "failed to verify email")
		}
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{
		Message: "Email verified successfully",
		User: AccountInfo{
			ID:         result.ID,
			Email:      result.Email,
			IsVerified: result.Verified,
		},
		RedirectURL: h.cfg.FrontendURL,
	})
}

func (h *AuthHTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// GoogleRedirect starts the Google consent flow. The random state is pinned
// in a short-lived cookie and checked on the callback.
func (h *AuthHTTPHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.googleProvider.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the handshake and signs the user in. Provider
// failures of any kind send the user back to the registration page; they are
// never surfaced as internal errors.
func (h *AuthHTTPHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn().Msg("google callback with missing or mismatched state")
		http.Redirect(w, r, h.cfg.FrontendURL+"/register", http.StatusTemporaryRedirect)
		return
	}

	profile, err := h.googleProvider.FetchProfile(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("google handshake failed")
		http.Redirect(w, r, h.cfg.FrontendURL+"/register", http.StatusTemporaryRedirect)
		return
	}

	result, err := h.googleUsecase.SignIn(r.Context(), *profile)
	if err != nil {
		h.logger.Error().Err(err).Msg("google sign-in failed")
		http.Redirect(w, r, h.cfg.FrontendURL+"/login?error=auth_failed", http.StatusTemporaryRedirect)
		return
	}

	h.setAuthCookie(w, result.Token)

	if !result.Verified {
		destination := fmt.Sprintf(
			"%s/verify-email?email=%s&isVerified=false",
			h.cfg.FrontendURL,
			url.QueryEscape(result.Email),
		)
		http.Redirect(w, r, destination, http.StatusTemporaryRedirect)
		return
	}

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHTTPHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := sessionClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, MessageResponse{Message: "Not authorized"})
		return
	}

	account, err := h.authUsecase.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, usecase.ErrAccountNotFound) {
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: "User not found"})
			return
		}

		h.internalError(w, err, "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		User: Profile{
			ID:         account.ID.Hex(),
			FirstName:  account.FirstName,
			LastName:   account.LastName,
			Email:      account.Email,
			Phone:      account.Phone,
			IsVerified: account.Verified,
			CreatedAt:  account.CreatedAt,
		},
	})
}

func (h *AuthHTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := decodeJSON(r, req); err != nil {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid request body"})
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  translateValidationErrors(err, h.trans),
		})
		return false
	}

	return true
}

func (h *AuthHTTPHandler) internalError(w http.ResponseWriter, err error, msg string) {
	h.logger.Error().Err(err).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
}

func (h *AuthHTTPHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Token.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHTTPHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHTTPHandler) secureCookies() bool {
	return h.cfg.Environment == "production"
}

func decodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
