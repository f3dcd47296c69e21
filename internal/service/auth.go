package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templui/darkroom/internal/model"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookieName = "darkroom_session"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account pending admin approval")
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrInvalidSession     = errors.New("invalid session")
)

type AuthService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	emailService      *EmailService
	sessionSecret     string
	sessionTTL        time.Duration
	isProduction      bool
	adminUser         string
	adminPass         string
	adminEmail        string
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	emailService *EmailService,
	sessionSecret string,
	sessionTTL time.Duration,
	isProduction bool,
	adminUser string,
	adminPass string,
	adminEmail string,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		emailService:      emailService,
		sessionSecret:     sessionSecret,
		sessionTTL:        sessionTTL,
		isProduction:      isProduction,
		adminUser:         adminUser,
		adminPass:         adminPass,
		adminEmail:        adminEmail,
	}
}

// Signup creates an unapproved account. It does not log the user in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, invalid("Valid email required")
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, invalid("%s", capitalize(err.Error()))
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Approved:     false,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("signup pending approval", "user_id", user.ID)

	if s.adminEmail != "" {
		err = s.emailService.SendSignupPending(ctx, s.adminEmail, user.Email)
		if err != nil {
			slog.Warn("failed to notify admin of signup", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

// Login accepts either the configured admin pair or an approved account's
// email and password, and opens a session for it.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.Session, *model.User, error) {
	identifier = strings.TrimSpace(identifier)

	if s.isAdminCredentials(identifier, password) {
		session, err := s.createSession(ctx, nil, true)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("admin login")
		return session, nil, nil
	}

	user, err := s.userRepository.ByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.Approved {
		return nil, nil, ErrPendingApproval
	}

	session, err := s.createSession(ctx, &user.ID, false)
	if err != nil {
		return nil, nil, err
	}

	return session, user, nil
}

func (s *AuthService) isAdminCredentials(identifier, password string) bool {
	if s.adminUser == "" || s.adminPass == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(identifier), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	return userOK && passOK
}

func (s *AuthService) createSession(ctx context.Context, userID *int64, isAdmin bool) (*model.Session, error) {
	session := &model.Session{
		UserID:    userID,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}

	err := s.sessionRepository.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepository.Delete(ctx, sessionID)
}

// ResolveSession turns a session cookie value back into a live session.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*model.Session, error) {
	sid, err := s.VerifyJWT(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session, err := s.sessionRepository.ByID(ctx, sid)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionExpired) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return session, nil
}

// PruneSessions deletes expired session rows.
func (s *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepository.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return n, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateJWT signs the session id. The token carries no identity of its
// own; revoking the session row invalidates it.
func (s *AuthService) GenerateJWT(session *model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID,
		"exp": session.ExpiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.sessionSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("token without session id")
	}

	return sid, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *model.Session) error {
	token, err := s.GenerateJWT(session)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
