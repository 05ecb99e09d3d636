package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	pkgAuth "github.com/polkiloo/gopherbistro/internal/pkg/auth"
)

func TestAuthUseCaseRegisterSuccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	acct, token, err := f.auth.Register(ctx, "  alice ", "password", "")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if acct.ID == 0 || acct.Login != "alice" {
		t.Fatalf("unexpected account: %+v", acct)
	}
	if len(acct.ReferralCode) != 8 {
		t.Fatalf("expected 8 char referral code, got %q", acct.ReferralCode)
	}
	if token != "token-1" {
		t.Fatalf("unexpected token %q", token)
	}
	stored, err := f.store.Accounts().GetByLogin(ctx, "alice")
	if err != nil {
		t.Fatalf("expected account in repository: %v", err)
	}
	if stored.PasswordHash != "hash:password" {
		t.Fatalf("password hash not stored: %v", stored.PasswordHash)
	}
	if entries := f.store.Entries(acct.ID); len(entries) != 0 {
		t.Fatalf("unreferred signup must not earn points: %+v", entries)
	}
	if got := len(f.store.EventsOfType(model.EventAccountRegistered)); got != 1 {
		t.Fatalf("expected registration event, got %d", got)
	}
}

func TestAuthUseCaseRegisterWithReferral(t *testing.T) {
	f := newFixture()
	referrer, _ := f.register("referrer", "")

	acct, err := f.register("friend", referrer.ReferralCode)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.ReferredBy == nil || *acct.ReferredBy != referrer.ID {
		t.Fatalf("expected referral link, got %+v", acct.ReferredBy)
	}
	entries := f.store.Entries(acct.ID)
	if len(entries) != 1 || entries[0].Delta != 500 || entries[0].Reason != model.ReasonReferralSignup {
		t.Fatalf("expected signup bonus entry, got %+v", entries)
	}
	if len(f.store.Entries(referrer.ID)) != 0 {
		t.Fatalf("referrer must not be paid on signup")
	}
}

func TestAuthUseCaseRegisterLowercaseReferralCode(t *testing.T) {
	f := newFixture()
	f.auth.codes = func() string { return "ABCDEF12" }
	if _, err := f.register("referrer", ""); err != nil {
		t.Fatalf("register referrer: %v", err)
	}
	f.auth.codes = func() string { return "12345678" }
	acct, err := f.register("friend", " abcdef12 ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acct.ReferredBy == nil {
		t.Fatal("expected referral code lookup to be case insensitive")
	}
}

func TestAuthUseCaseRegisterUnknownReferral(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.auth.Register(ctx, "ghost", "secret", "NOPE0000")
	if !errors.Is(err, domainErrors.ErrInvalidReferralCode) {
		t.Fatalf("expected invalid referral code, got %v", err)
	}
	if _, err := f.store.Accounts().GetByLogin(ctx, "ghost"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("account must not be created, got %v", err)
	}
}

func TestAuthUseCaseRegisterDuplicate(t *testing.T) {
	f := newFixture()
	if _, err := f.register("bob", ""); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	if _, err := f.register("bob", ""); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthUseCaseRegisterRetriesReferralCodeCollision(t *testing.T) {
	f := newFixture()
	codes := []string{"AAAA0000", "AAAA0000", "BBBB1111"}
	f.auth.codes = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}
	if _, err := f.register("first", ""); err != nil {
		t.Fatalf("register first: %v", err)
	}
	acct, err := f.register("second", "")
	if err != nil {
		t.Fatalf("expected collision to be retried, got %v", err)
	}
	if acct.ReferralCode != "BBBB1111" {
		t.Fatalf("expected fresh code, got %q", acct.ReferralCode)
	}
}

func TestAuthUseCaseRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cases := []struct{ login, password string }{{"", "pw"}, {"   ", "pw"}, {"user", ""}}
	for _, tc := range cases {
		if _, _, err := f.auth.Register(ctx, tc.login, tc.password, ""); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Fatalf("register(%q,%q): expected invalid credentials, got %v", tc.login, tc.password, err)
		}
	}
}

func TestAuthUseCaseAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, _ := f.register("carol", "")

	acct, token, err := f.auth.Authenticate(ctx, "carol", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if acct.ID != created.ID || token == "" {
		t.Fatalf("unexpected result %+v %q", acct, token)
	}
	if _, _, err := f.auth.Authenticate(ctx, "carol", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, _, err := f.auth.Authenticate(ctx, "nobody", "secret"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown login, got %v", err)
	}
}

func TestAuthUseCaseParseToken(t *testing.T) {
	f := newFixture()
	if _, err := f.auth.ParseToken(""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	id, err := f.auth.ParseToken("token-7")
	if err != nil || id != 7 {
		t.Fatalf("expected id 7, got %d %v", id, err)
	}
}

func TestAuthUseCaseProfile(t *testing.T) {
	f := newFixture()
	referrer, _ := f.register("ref", "")
	acct, _ := f.register("member", referrer.ReferralCode)

	profile, err := f.auth.Profile(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.PointsBalance != 500 || profile.Account.Login != "member" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if _, err := f.auth.Profile(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
