package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

const (
	minPasswordLength     = 6
	DefaultOTPTTL         = 10 * time.Minute
	DefaultMaxOTPAttempts = 5
	DefaultMaxOTPResends  = 3
)

// AuthPolicy selects between the registration and login variants the service
// supports.
type AuthPolicy struct {
	// RequireEmailVerification gates login behind a mailed one-time code.
	RequireEmailVerification bool
	// AllowPasswordLogin disables /login when false (Google only).
	AllowPasswordLogin bool
	// CounsellorListRequiresLogin hides counsellors who never signed in from
	// the registration dropdown.
	CounsellorListRequiresLogin bool
	OTPTTL                      time.Duration
	MaxOTPAttempts              int64
	// MaxOTPResends caps resend-otp calls per account within one OTP window.
	MaxOTPResends int64
}

// AuthDeps groups the collaborators of AuthService. Limiter may be nil.
type AuthDeps struct {
	Users       ports.UserRepository
	Assignments ports.AssignmentRepository
	Tx          ports.Transactor
	Mailer      ports.Mailer
	Verifier    ports.IdentityVerifier
	Limiter     ports.AttemptLimiter
	Sessions    *Sessions
}

// AuthService implements registration, verification, login and identity
// resolution.
type AuthService struct {
	users       ports.UserRepository
	assignments ports.AssignmentRepository
	tx          ports.Transactor
	mailer      ports.Mailer
	verifier    ports.IdentityVerifier
	limiter     ports.AttemptLimiter
	sessions    *Sessions
	policy      AuthPolicy
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(deps AuthDeps, policy AuthPolicy, log zerolog.Logger) *AuthService {
	if policy.OTPTTL <= 0 {
		policy.OTPTTL = DefaultOTPTTL
	}
	if policy.MaxOTPAttempts <= 0 {
		policy.MaxOTPAttempts = DefaultMaxOTPAttempts
	}
	if policy.MaxOTPResends <= 0 {
		policy.MaxOTPResends = DefaultMaxOTPResends
	}
	return &AuthService{
		users:       deps.Users,
		assignments: deps.Assignments,
		tx:          deps.Tx,
		mailer:      deps.Mailer,
		verifier:    deps.Verifier,
		limiter:     deps.Limiter,
		sessions:    deps.Sessions,
		policy:      policy,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	counsellorID, err := s.resolveCounsellor(ctx, role, in.CounsellorName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CounsellorID: counsellorID,
		Verified:     !s.policy.RequireEmailVerification,
		CreatedAt:    now,
	}

	var deliver func(ctx context.Context, u *domain.User) error
	if s.policy.RequireEmailVerification {
		code, err := generateOTP()
		if err != nil {
			return nil, err
		}
		user.OTP = code
		user.OTPExpires = now.Add(s.policy.OTPTTL)
		deliver = func(ctx context.Context, u *domain.User) error {
			if err := s.mailer.SendOTP(ctx, u.Email, u.Name, code, s.policy.OTPTTL); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
			}
			return nil
		}
	}

	created, err := s.createAccount(ctx, user, deliver)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Bool("verification_pending", !created.Verified).
		Msg("user registered")

	return &ports.RegisterResult{User: created.Profile(), VerificationPending: !created.Verified}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and otp are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return nil
	}

	key := otpAttemptKey(user.ID)
	if s.limiter != nil {
		n, err := s.limiter.Hit(ctx, key)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("otp attempt limiter unavailable, continuing")
		case n > s.policy.MaxOTPAttempts:
			return domain.ErrTooManyAttempts
		}
	}

	if user.OTP == "" || s.now().After(user.OTPExpires) {
		return domain.ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(user.OTP)) != 1 {
		return domain.ErrInvalidOTP
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	s.resetAttempts(ctx, key)

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return nil
}

// ResendOTP re-arms verification for an unverified account whose code was
// lost or expired. The account is kept even if delivery fails.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return fmt.Errorf("%w: account already verified", domain.ErrValidation)
	}
	if s.limiter != nil {
		n, err := s.limiter.Hit(ctx, otpResendKey(user.ID))
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("otp resend limiter unavailable, continuing")
		case n > s.policy.MaxOTPResends:
			return domain.ErrTooManyAttempts
		}
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.users.SetOTP(ctx, user.ID, code, s.now().Add(s.policy.OTPTTL)); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	s.resetAttempts(ctx, otpAttemptKey(user.ID))

	if err := s.mailer.SendOTP(ctx, user.Email, user.Name, code, s.policy.OTPTTL); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("otp resend delivery failed")
		return fmt.Errorf("%w: %v", domain.ErrNotificationFailure, err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" || !s.policy.AllowPasswordLogin {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if s.policy.RequireEmailVerification && !user.Verified {
		return nil, domain.ErrNotVerified
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) GoogleLogin(ctx context.Context, in ports.GoogleLoginInput) (*ports.GoogleLoginResult, error) {
	if strings.TrimSpace(in.IDToken) == "" {
		return nil, fmt.Errorf("%w: idToken is required", domain.ErrValidation)
	}

	identity, err := s.verifier.Verify(ctx, in.IDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidExternalToken, err)
	}
	email := domain.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", domain.ErrInvalidExternalToken)
	}
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		// The verifier only accepts Google-verified emails, so a pending OTP
		// is moot once the owner signs in this way.
		if !existing.Verified {
			if err := s.users.MarkVerified(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("mark verified: %w", err)
			}
			existing.Verified = true
			existing.OTP, existing.OTPExpires = "", time.Time{}
			s.log.Info().Str("user_id", existing.ID).Msg("email verified via google")
		}
		session, err := s.issueSession(ctx, existing)
		if err != nil {
			return nil, err
		}
		return &ports.GoogleLoginResult{Session: session}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	if strings.TrimSpace(in.Role) == "" {
		return &ports.GoogleLoginResult{NeedsRoleSelection: true, Email: email, Name: name}, nil
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	counsellorID, err := s.resolveCounsellor(ctx, role, in.CounsellorName)
	if err != nil {
		return nil, err
	}

	created, err := s.createAccount(ctx, &domain.User{
		Name:         name,
		Email:        email,
		Role:         role,
		CounsellorID: counsellorID,
		Verified:     true,
		CreatedAt:    s.now(),
	}, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered via google")

	session, err := s.issueSession(ctx, created)
	if err != nil {
		return nil, err
	}
	return &ports.GoogleLoginResult{Session: session}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.sessions.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

func (s *AuthService) ListCounsellors(ctx context.Context) ([]domain.CounsellorOption, error) {
	return s.users.ListCounsellors(ctx, s.policy.CounsellorListRequiresLogin)
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrDuplicateEmail
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

// resolveCounsellor maps a counsellor's display name to their id. Only
// counsillis need one.
func (s *AuthService) resolveCounsellor(ctx context.Context, role domain.Role, counsellorName string) (string, error) {
	if role != domain.RoleCounsilli {
		return "", nil
	}
	if counsellorName == "" {
		return "", fmt.Errorf("%w: counsellor name is required for counsilli registration", domain.ErrValidation)
	}
	counsellor, err := s.users.FindCounsellorByName(ctx, counsellorName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUnknownCounsellor
		}
		return "", fmt.Errorf("find counsellor: %w", err)
	}
	return counsellor.ID, nil
}

// createAccount writes the user and, for counsillis, the matching assignment,
// then runs after (OTP delivery). When the transactor is not atomic, a failure
// after the user was written is compensated by deleting what was created.
func (s *AuthService) createAccount(ctx context.Context, user *domain.User, after func(ctx context.Context, u *domain.User) error) (*domain.User, error) {
	var created *domain.User

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.users.Create(ctx, user)
		if err != nil {
			return err
		}
		created = u

		if u.Role == domain.RoleCounsilli {
			if _, err := s.assignments.Create(ctx, &domain.CounsellorAssignment{
				CounsellorID: u.CounsellorID,
				CounsilliID:  u.ID,
				CreatedAt:    u.CreatedAt,
			}); err != nil {
				return fmt.Errorf("create assignment: %w", err)
			}
		}

		if after != nil {
			return after(ctx, u)
		}
		return nil
	})
	if err != nil {
		if created != nil && !s.tx.Atomic() {
			s.compensate(ctx, created)
		}
		return nil, err
	}
	return created, nil
}

// compensate deletes a half-registered account. Both deletes are idempotent;
// failures are logged and left for manual correction.
func (s *AuthService) compensate(ctx context.Context, u *domain.User) {
	ctx = context.WithoutCancel(ctx)
	log := s.log.With().Str("user_id", u.ID).Str("email", u.Email).Logger()

	if u.Role == domain.RoleCounsilli {
		if err := s.assignments.DeleteByCounsilli(ctx, u.ID); err != nil {
			log.Error().Err(err).Msg("compensation: failed to delete assignment")
		}
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		log.Error().Err(err).Msg("compensation: failed to delete user")
		return
	}
	log.Warn().Msg("registration rolled back")
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*ports.Session, error) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &ports.Session{Token: token, User: user.Profile()}, nil
}

func (s *AuthService) resetAttempts(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to reset attempt counter")
	}
}

func otpAttemptKey(userID string) string {
	return "otp:" + userID
}

func otpResendKey(userID string) string {
	return "otp-resend:" + userID
}

// generateOTP returns a uniformly random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
