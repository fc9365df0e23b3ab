package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/inkpress/backend/internal/common/clock"
	commoncrypto "github.com/inkpress/inkpress/backend/internal/common/crypto"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
	userdomain "github.com/inkpress/inkpress/backend/internal/user/domain"
	userrepo "github.com/inkpress/inkpress/backend/internal/user/repository"
)

// AuthService is the credential and session authority: it owns
// registration, credential verification and session token issuance. The
// signing secret is injected at construction and never read from the
// environment here.
type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
	jwtSecret   []byte
	tokenTTL    time.Duration
}

type AuthServiceDeps struct {
	Repo        userrepo.Repository
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type AuthServiceConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthService(deps AuthServiceDeps, cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		repo:        deps.Repo,
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
		jwtSecret:   []byte(cfg.JWTSecret),
		tokenTTL:    cfg.TokenTTL,
	}
}

type SignupInput struct {
	Username string
	Password string
	Name     string
}

type SigninInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  userdomain.User
}

func (s *AuthService) Register(ctx context.Context, input SignupInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		incrementRegistrations("validation_failed")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	if err := validateName(input.Name); err != nil {
		incrementRegistrations("validation_failed")
		return AuthResult{}, err
	}

	// Fast-path existence check only; the unique index on the store is
	// the authoritative guard against a concurrent duplicate.
	_, err := s.repo.FindByUsername(ctx, input.Username)
	if err == nil {
		incrementRegistrations("conflict")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_username_exists",
		}).Warn("register failed: already exists")
		return AuthResult{}, ErrUsernameTaken
	}
	if !errors.Is(err, commonerrors.ErrUserNotFound) {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_lookup_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			incrementRegistrations("conflict")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return AuthResult{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	token, err := s.IssueToken(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementRegistrations("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, input SigninInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signin_attempt",
	}).Info("signin attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		incrementSignins("validation_failed")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signin_validation_failed",
		}).Warnf("signin validation failed: %v", err)
		return AuthResult{}, err
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			// Same error as a wrong password so usernames cannot be
			// enumerated through this endpoint.
			incrementSignins("invalid_credentials")
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signin_user_not_found",
			}).Warn("signin failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signin_fetch_failed",
		}).Errorf("signin failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		incrementSignins("invalid_credentials")
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signin_invalid_password",
		}).Warn("signin failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(string(user.ID))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "signin_token_issue_failed",
		}).Errorf("signin failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	incrementSignins("success")
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signin_success",
	}).Info("signin success")

	return AuthResult{Token: token, User: user}, nil
}

// IssueToken signs a session token whose sole identity claim is the user
// id. Expiry is a hardening addition over the bare claim set the clients
// were built against.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}

// AuthorizeOwnership is the ownership check every mutating post
// operation relies on: plain identifier equality, no side effects.
func AuthorizeOwnership(resourceOwnerID, requestUserID string) bool {
	return resourceOwnerID != "" && resourceOwnerID == requestUserID
}
