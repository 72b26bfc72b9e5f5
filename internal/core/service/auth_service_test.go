package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vitvoice/sadhana-api/internal/core/domain"
	"github.com/vitvoice/sadhana-api/internal/core/ports"
)

func registerCounsellor(t *testing.T, svc *AuthService, name, email string) *domain.User {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: name, Email: email, Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("register counsellor %s: %v", name, err)
	}
	return res.User
}

func TestAuthService_Register_Counsellor(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: " Asha ", Email: "Asha@Example.com", Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.Name != "Asha" || res.User.Email != "asha@example.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("expected profile without password hash")
	}
	if res.VerificationPending {
		t.Fatalf("expected no verification step")
	}

	stored := f.users.byID[res.User.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(f.assignments.rows) != 0 {
		t.Fatalf("counsellor should not get an assignment, got %d", len(f.assignments.rows))
	}
}

func TestAuthService_Register_CounsilliCreatesAssignment(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	asha := registerCounsellor(t, svc, "Asha", "asha@example.com")

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "Asha",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.CounsellorID != asha.ID {
		t.Fatalf("expected counsellor %s, got %s", asha.ID, res.User.CounsellorID)
	}
	if len(f.assignments.rows) != 1 {
		t.Fatalf("expected exactly one assignment, got %d", len(f.assignments.rows))
	}
	a := f.assignments.rows[0]
	if a.CounsellorID != asha.ID || a.CounsilliID != res.User.ID {
		t.Fatalf("unexpected assignment: %+v", a)
	}
}

func TestAuthService_Register_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   ports.RegisterInput
		want error
	}{
		{"missing name", ports.RegisterInput{Email: "a@x.com", Password: "pass123", Role: "counsellor"}, domain.ErrValidation},
		{"short password", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "abc", Role: "counsellor"}, domain.ErrValidation},
		{"bad role", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "pass123", Role: "admin"}, domain.ErrValidation},
		{"counsilli without counsellor", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "pass123", Role: "counsilli"}, domain.ErrValidation},
		{"unknown counsellor", ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "pass123", Role: "counsilli", CounsellorName: "Nobody"}, domain.ErrUnknownCounsellor},
		{"duplicate email", ports.RegisterInput{Name: "A", Email: "ASHA@example.com", Password: "pass123", Role: "counsellor"}, domain.ErrDuplicateEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			svc := f.auth(passwordPolicy)
			registerCounsellor(t, svc, "Asha", "asha@example.com")

			_, err := svc.Register(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.users.byID) != 1 {
				t.Fatalf("expected store unchanged, got %d users", len(f.users.byID))
			}
		})
	}
}

func TestAuthService_Register_CounsellorNameIsExact(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	registerCounsellor(t, svc, "Asha", "asha@example.com")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "asha",
	})
	if !errors.Is(err, domain.ErrUnknownCounsellor) {
		t.Fatalf("expected ErrUnknownCounsellor, got %v", err)
	}
}

func TestAuthService_Register_AssignmentFailureCompensates(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	registerCounsellor(t, svc, "Asha", "asha@example.com")
	f.assignments.createErr = errors.New("write conflict")

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "Asha",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(f.users.byID) != 1 {
		t.Fatalf("expected half-registered counsilli to be removed, got %d users", len(f.users.byID))
	}
	if len(f.users.deleted) != 1 {
		t.Fatalf("expected one compensating delete, got %d", len(f.users.deleted))
	}
}

func TestAuthService_Register_AtomicTransactorSkipsCompensation(t *testing.T) {
	f := newFixture()
	f.tx.atomic = true
	svc := f.auth(passwordPolicy)
	registerCounsellor(t, svc, "Asha", "asha@example.com")
	f.assignments.createErr = errors.New("write conflict")

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "Asha",
	}); err == nil {
		t.Fatalf("expected error")
	}
	if len(f.users.deleted) != 0 {
		t.Fatalf("rollback belongs to the transaction, got %d deletes", len(f.users.deleted))
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	asha := registerCounsellor(t, svc, "Asha", "asha@example.com")

	session, err := svc.Login(context.Background(), "ASHA@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token")
	}
	if session.User.ID != asha.ID || session.User.PasswordHash != "" {
		t.Fatalf("unexpected session user: %+v", session.User)
	}
	if f.users.byID[asha.ID].LastLogin == nil {
		t.Fatalf("expected last login to be recorded")
	}

	claims, err := f.sessions.Validate(session.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != asha.ID || claims.Role != domain.RoleCounsellor {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	registerCounsellor(t, svc, "Asha", "asha@example.com")
	f.seedUser("Gita", "gita@example.com", domain.RoleCounsellor, "")

	cases := map[string][2]string{
		"wrong password": {"asha@example.com", "nope123"},
		"unknown email":  {"ghost@example.com", "pass123"},
		"empty password": {"asha@example.com", ""},
		"no password":    {"gita@example.com", "pass123"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), c[0], c[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	f := newFixture()
	registerCounsellor(t, f.auth(passwordPolicy), "Asha", "asha@example.com")

	svc := f.auth(AuthPolicy{AllowPasswordLogin: false})
	if _, err := svc.Login(context.Background(), "asha@example.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_CurrentUser_RoundTrip(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	asha := registerCounsellor(t, svc, "Asha", "asha@example.com")

	session, err := svc.Login(context.Background(), "asha@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	me, err := svc.CurrentUser(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if me.ID != asha.ID || me.Email != "asha@example.com" {
		t.Fatalf("unexpected user: %+v", me)
	}
	if me.PasswordHash != "" || me.OTP != "" {
		t.Fatalf("profile leaks secrets: %+v", me)
	}

	if _, err := svc.CurrentUser(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	delete(f.users.byID, asha.ID)
	if _, err := svc.CurrentUser(context.Background(), session.Token); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

var verifyPolicy = AuthPolicy{RequireEmailVerification: true, AllowPasswordLogin: true}

func TestAuthService_OTPFlow(t *testing.T) {
	f := newFixture()
	svc := f.auth(verifyPolicy)

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !res.VerificationPending {
		t.Fatalf("expected verification pending")
	}
	code := f.mailer.last().code
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if _, err := svc.Login(context.Background(), "asha@example.com", "pass123"); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "asha@example.com", "wrong12"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password must not reveal verification state, got %v", err)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", wrong); !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", code); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if stored := f.users.byID[res.User.ID]; !stored.Verified || stored.OTP != "" {
		t.Fatalf("expected verified account with cleared otp: %+v", stored)
	}
	if len(f.limiter.counts) != 0 {
		t.Fatalf("expected attempt counter reset")
	}

	if _, err := svc.Login(context.Background(), "asha@example.com", "pass123"); err != nil {
		t.Fatalf("Login after verify returned error: %v", err)
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", "999999"); err != nil {
		t.Fatalf("verifying a verified account should be a no-op, got %v", err)
	}
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	f := newFixture()
	svc := f.auth(verifyPolicy)
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	code := f.mailer.last().code

	svc.now = func() time.Time { return time.Now().UTC().Add(DefaultOTPTTL + time.Minute) }
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
	if f.users.byID[res.User.ID].Verified {
		t.Fatalf("expired code must not verify")
	}
}

func TestAuthService_VerifyOTP_TooManyAttempts(t *testing.T) {
	f := newFixture()
	svc := f.auth(AuthPolicy{RequireEmailVerification: true, MaxOTPAttempts: 2})
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	code := f.mailer.last().code
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < 2; i++ {
		if err := svc.VerifyOTP(context.Background(), "asha@example.com", wrong); !errors.Is(err, domain.ErrInvalidOTP) {
			t.Fatalf("attempt %d: expected ErrInvalidOTP, got %v", i+1, err)
		}
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", code); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	if err := svc.ResendOTP(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("ResendOTP returned error: %v", err)
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", f.mailer.last().code); err != nil {
		t.Fatalf("fresh code should verify after resend, got %v", err)
	}
}

func TestAuthService_VerifyOTP_LimiterDownStillVerifies(t *testing.T) {
	f := newFixture()
	svc := f.auth(verifyPolicy)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	f.limiter.err = errors.New("redis down")

	if err := svc.VerifyOTP(context.Background(), "asha@example.com", f.mailer.last().code); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
}

func TestAuthService_Register_MailFailureRollsBack(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	registerCounsellor(t, svc, "Asha", "asha@example.com")

	verifying := f.auth(verifyPolicy)
	f.mailer.err = errors.New("mailgun: 401")

	_, err := verifying.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "Asha",
	})
	if !errors.Is(err, domain.ErrNotificationFailure) {
		t.Fatalf("expected ErrNotificationFailure, got %v", err)
	}
	if _, err := f.users.FindByEmail(context.Background(), "ravi@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user removed, got %v", err)
	}
	if len(f.assignments.rows) != 0 {
		t.Fatalf("expected assignment removed, got %d", len(f.assignments.rows))
	}

	f.mailer.err = nil
	if _, err := verifying.Register(context.Background(), ports.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pass123", Role: "counsilli", CounsellorName: "Asha",
	}); err != nil {
		t.Fatalf("retry after rollback should succeed, got %v", err)
	}
}

func TestAuthService_ResendOTP(t *testing.T) {
	f := newFixture()
	svc := f.auth(verifyPolicy)
	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.ResendOTP(context.Background(), "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	f.mailer.err = errors.New("smtp down")
	if err := svc.ResendOTP(context.Background(), "asha@example.com"); !errors.Is(err, domain.ErrNotificationFailure) {
		t.Fatalf("expected ErrNotificationFailure, got %v", err)
	}
	if _, err := f.users.FindByEmail(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("resend failure must keep the account: %v", err)
	}

	f.mailer.err = nil
	if err := svc.ResendOTP(context.Background(), "asha@example.com"); err != nil {
		t.Fatalf("ResendOTP returned error: %v", err)
	}
	if err := svc.VerifyOTP(context.Background(), "asha@example.com", f.mailer.last().code); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}
	if err := svc.ResendOTP(context.Background(), "asha@example.com"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for verified account, got %v", err)
	}
}

func TestAuthService_ResendOTP_Throttled(t *testing.T) {
	f := newFixture()
	svc := f.auth(AuthPolicy{RequireEmailVerification: true, AllowPasswordLogin: true, MaxOTPResends: 2})
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	sent := len(f.mailer.sent)

	for i := 0; i < 2; i++ {
		if err := svc.ResendOTP(context.Background(), "asha@example.com"); err != nil {
			t.Fatalf("resend %d returned error: %v", i+1, err)
		}
	}
	if err := svc.ResendOTP(context.Background(), "asha@example.com"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if got := len(f.mailer.sent) - sent; got != 2 {
		t.Fatalf("expected 2 resend mails, got %d", got)
	}
	if f.limiter.counts[otpResendKey(res.User.ID)] != 3 {
		t.Fatalf("expected resend hits counted, got %d", f.limiter.counts[otpResendKey(res.User.ID)])
	}
}

func TestAuthService_GoogleLogin(t *testing.T) {
	f := newFixture()
	svc := f.auth(passwordPolicy)
	asha := registerCounsellor(t, svc, "Asha", "asha@example.com")

	t.Run("existing user", func(t *testing.T) {
		f.verifier.identity = &ports.ExternalIdentity{Email: "ASHA@example.com", Name: "Asha D"}
		res, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{IDToken: "tok"})
		if err != nil {
			t.Fatalf("GoogleLogin returned error: %v", err)
		}
		if res.Session == nil || res.Session.User.ID != asha.ID {
			t.Fatalf("expected session for existing user, got %+v", res)
		}
	})

	t.Run("new user needs role", func(t *testing.T) {
		f.verifier.identity = &ports.ExternalIdentity{Email: "ravi@example.com"}
		res, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{IDToken: "tok"})
		if err != nil {
			t.Fatalf("GoogleLogin returned error: %v", err)
		}
		if !res.NeedsRoleSelection || res.Session != nil {
			t.Fatalf("expected role selection, got %+v", res)
		}
		if res.Name != "ravi" {
			t.Fatalf("expected name derived from email, got %q", res.Name)
		}
		if _, err := f.users.FindByEmail(context.Background(), "ravi@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("no account should be created yet")
		}
	})

	t.Run("new counsilli with role", func(t *testing.T) {
		f.verifier.identity = &ports.ExternalIdentity{Email: "ravi@example.com", Name: "Ravi"}
		res, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{
			IDToken: "tok", Role: "counsilli", CounsellorName: "Asha",
		})
		if err != nil {
			t.Fatalf("GoogleLogin returned error: %v", err)
		}
		if res.Session == nil || !res.Session.User.Verified || res.Session.User.CounsellorID != asha.ID {
			t.Fatalf("unexpected result: %+v", res)
		}
		if len(f.assignments.rows) != 1 {
			t.Fatalf("expected one assignment, got %d", len(f.assignments.rows))
		}
		if _, err := svc.Login(context.Background(), "ravi@example.com", "anything"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("google-only account must reject password login, got %v", err)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		f.verifier.err = errors.New("audience mismatch")
		defer func() { f.verifier.err = nil }()
		if _, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{IDToken: "tok"}); !errors.Is(err, domain.ErrInvalidExternalToken) {
			t.Fatalf("expected ErrInvalidExternalToken, got %v", err)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		if _, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestAuthService_GoogleLogin_VerifiesPendingAccount(t *testing.T) {
	f := newFixture()
	svc := f.auth(verifyPolicy)
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Asha", Email: "asha@example.com", Password: "pass123", Role: "counsellor",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "asha@example.com", "pass123"); !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified before google sign-in, got %v", err)
	}

	f.verifier.identity = &ports.ExternalIdentity{Email: "asha@example.com", Name: "Asha"}
	g, err := svc.GoogleLogin(context.Background(), ports.GoogleLoginInput{IDToken: "tok"})
	if err != nil {
		t.Fatalf("GoogleLogin returned error: %v", err)
	}
	if g.Session == nil || !g.Session.User.Verified {
		t.Fatalf("expected verified session user, got %+v", g.Session)
	}

	stored, err := f.users.FindByID(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !stored.Verified || stored.OTP != "" {
		t.Fatalf("expected stored account verified with otp cleared, got verified=%v otp=%q", stored.Verified, stored.OTP)
	}
	if _, err := svc.Login(context.Background(), "asha@example.com", "pass123"); err != nil {
		t.Fatalf("password login after google sign-in: %v", err)
	}
}

func TestAuthService_ListCounsellors(t *testing.T) {
	f := newFixture()
	f.seedUser("Bina", "bina@example.com", domain.RoleCounsellor, "")
	asha := f.seedUser("Asha", "asha@example.com", domain.RoleCounsellor, "")
	f.seedUser("Ravi", "ravi@example.com", domain.RoleCounsilli, asha.ID)
	now := time.Now()
	f.users.byID[asha.ID].LastLogin = &now

	all, err := f.auth(passwordPolicy).ListCounsellors(context.Background())
	if err != nil {
		t.Fatalf("ListCounsellors returned error: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Asha" || all[1].Name != "Bina" {
		t.Fatalf("unexpected counsellors: %+v", all)
	}

	active, err := f.auth(AuthPolicy{CounsellorListRequiresLogin: true}).ListCounsellors(context.Background())
	if err != nil {
		t.Fatalf("ListCounsellors returned error: %v", err)
	}
	if len(active) != 1 || active[0].ID != asha.ID {
		t.Fatalf("expected only counsellors who signed in, got %+v", active)
	}
}
