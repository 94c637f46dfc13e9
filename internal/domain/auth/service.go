package auth

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const mfaIssuer = "TrainHub"

// Sealer encrypts secrets at rest. When it is not configured the values are
// stored as given.
type Sealer interface {
	Configured() bool
	EncryptString(value string) ([]byte, error)
	DecryptString(value []byte) (string, error)
}

type Service struct {
	store  StoreAPI
	sealer Sealer
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, sealer Sealer, secret string, ttl time.Duration) *Service {
	return &Service{store: store, sealer: sealer, secret: secret, ttl: ttl, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (Session, error) {
	creds, err := s.store.FindActiveUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(creds.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if creds.MFAEnabled {
		if mfaCode == "" {
			return Session{}, ErrMFARequired
		}
		secret, err := s.openSecret(creds.MFASecretEnc)
		if err != nil || secret == "" || !totp.Validate(mfaCode, secret) {
			return Session{}, ErrInvalidMFACode
		}
	}

	claims := Claims{UserID: creds.ID, RoleName: creds.RoleName}
	if creds.EmployeeID != nil {
		claims.EmployeeID = *creds.EmployeeID
	}
	token, err := GenerateToken(s.secret, claims, s.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, creds.ID); err != nil {
		slog.Warn("update last_login failed", "userId", creds.ID, "err", err)
	}
	return Session{Token: token, ExpiresAt: s.now().Add(s.ttl), User: creds.User}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.store.ListUsers(ctx)
}

// UserIDsWithRole lists the active users holding any of the given roles.
func (s *Service) UserIDsWithRole(ctx context.Context, roles ...string) ([]string, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, u := range users {
		if u.Status == UserStatusActive && slices.Contains(roles, u.RoleName) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (s *Service) CreateUser(ctx context.Context, in NewUser) (User, error) {
	in.Email = NormalizeEmail(in.Email)
	if in.Email == "" {
		return User{}, ErrEmailRequired
	}
	if !ValidRole(in.RoleName) {
		return User{}, ErrInvalidRole
	}
	if err := ValidatePassword(in.Password); err != nil {
		return User{}, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.store.CreateUser(ctx, in, hash)
}

func (s *Service) SetupMFA(ctx context.Context, userID, accountName string) (MFASetup, error) {
	if !s.sealerReady() {
		return MFASetup{}, ErrMFAUnavailable
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, err
	}
	sealed, err := s.sealer.EncryptString(key.Secret())
	if err != nil {
		return MFASetup{}, err
	}
	if err := s.store.UpdateMFASecret(ctx, userID, sealed); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	return s.toggleMFA(ctx, userID, code, true)
}

func (s *Service) DisableMFA(ctx context.Context, userID, code string) error {
	return s.toggleMFA(ctx, userID, code, false)
}

func (s *Service) toggleMFA(ctx context.Context, userID, code string, enabled bool) error {
	if !s.sealerReady() {
		return ErrMFAUnavailable
	}
	sealed, err := s.store.GetMFASecret(ctx, userID)
	if err != nil {
		return err
	}
	if len(sealed) == 0 {
		return ErrMFANotSetUp
	}
	secret, err := s.openSecret(sealed)
	if err != nil {
		return ErrMFANotSetUp
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidMFACode
	}
	return s.store.SetMFAEnabled(ctx, userID, enabled)
}

func (s *Service) sealerReady() bool {
	return s.sealer != nil && s.sealer.Configured()
}

func (s *Service) openSecret(sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", errors.New("empty mfa secret")
	}
	if !s.sealerReady() {
		return string(sealed), nil
	}
	return s.sealer.DecryptString(sealed)
}
