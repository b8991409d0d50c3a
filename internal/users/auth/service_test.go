// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laurel/internal/platform/apperr"
	"github.com/taibuivan/laurel/internal/platform/sec"
	"github.com/taibuivan/laurel/internal/users/auth"
)

// # Fakes

// fakeUserRepo is an in-memory UserRepository that mimics the storage
// layer's unique indexes on username and email.
type fakeUserRepo struct {
	users []*auth.User
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByPair(_ context.Context, username, email string) (*auth.User, error) {
	for _, u := range repo.users {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	for _, u := range repo.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	clone := *user
	repo.users = append(repo.users, &clone)
	return nil
}

func (repo *fakeUserRepo) SetConfirmationCode(_ context.Context, userID, codeHash string, issuedAt time.Time) error {
	for _, u := range repo.users {
		if u.ID == userID {
			u.ConfirmationCodeHash = codeHash
			u.CodeIssuedAt = issuedAt
			return nil
		}
	}
	return apperr.NotFound("User")
}

type fakeThrottle struct {
	denied     bool
	retryAfter int
	calls      int
}

func (t *fakeThrottle) Acquire(_ context.Context, _ string, _ time.Duration, _ int) (bool, int, error) {
	t.calls++
	if t.denied {
		return false, t.retryAfter, nil
	}
	return true, 0, nil
}

type fakeTokenProvider struct {
	lastRole    string
	lastIsStaff bool
}

func (p *fakeTokenProvider) GenerateAccessToken(userID, _, role string, isStaff bool, _ time.Duration) (string, error) {
	p.lastRole = role
	p.lastIsStaff = isStaff
	return "jwt-for-" + userID, nil
}

type fakeMailer struct {
	sent   []string // message bodies, in order
	failed bool
}

func (m *fakeMailer) Send(_ context.Context, _, body, _ string, _ []string) error {
	if m.failed {
		return assert.AnError
	}
	m.sent = append(m.sent, body)
	return nil
}

// codePattern matches the base32 confirmation code embedded in the email body.
var codePattern = regexp.MustCompile(`[A-Z2-7]{16,}`)

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent)
	code := codePattern.FindString(m.sent[len(m.sent)-1])
	require.NotEmpty(t, code, "email body should contain a confirmation code")
	return code
}

// # Harness

type harness struct {
	service  *auth.Service
	users    *fakeUserRepo
	throttle *fakeThrottle
	tokens   *fakeTokenProvider
	mailer   *fakeMailer
	deriver  *sec.CodeDeriver
}

func newHarness() *harness {
	h := &harness{
		users:    &fakeUserRepo{},
		throttle: &fakeThrottle{},
		tokens:   &fakeTokenProvider{},
		mailer:   &fakeMailer{},
		deriver:  sec.NewCodeDeriver("test-secret"),
	}
	h.service = auth.NewService(h.users, h.throttle, h.tokens, h.deriver, h.mailer, "support@laurel.app")
	return h
}

func (h *harness) signup(t *testing.T, username, email string) *auth.User {
	t.Helper()
	user, err := h.service.Signup(context.Background(), auth.SignupInput{Username: username, Email: email})
	require.NoError(t, err)
	return user
}

// # Registration

func TestSignup_CreatesUserAndEmailsCode(t *testing.T) {
	h := newHarness()

	user := h.signup(t, "alice", "alice@example.com")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsStaff)

	// The emailed code must verify against the stored hash.
	code := h.mailer.lastCode(t)
	assert.True(t, sec.CheckCodeHash(code, user.ConfirmationCodeHash))
}

func TestSignup_RepeatedPairReusesAccount(t *testing.T) {
	h := newHarness()

	first := h.signup(t, "alice", "alice@example.com")
	second := h.signup(t, "alice", "alice@example.com")

	// Same account, fresh code: the stored hash must have rotated.
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, h.users.users, 1)
	assert.NotEqual(t, first.ConfirmationCodeHash, second.ConfirmationCodeHash)
}

func TestSignup_PartialCollisionIsConflict(t *testing.T) {
	h := newHarness()
	h.signup(t, "alice", "alice@example.com")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"username_taken_different_email", "alice", "other@example.com"},
		{"email_taken_different_username", "someone", "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.service.Signup(context.Background(), auth.SignupInput{
				Username: tt.username,
				Email:    tt.email,
			})
			assert.True(t, apperr.IsConflict(err))
		})
	}
}

func TestSignup_ThrottleDenial(t *testing.T) {
	h := newHarness()
	h.throttle.denied = true
	h.throttle.retryAfter = 120

	_, err := h.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)
	assert.Empty(t, h.users.users, "no account is created when throttled")
}

func TestSignup_DeliveryFailurePropagates(t *testing.T) {
	h := newHarness()
	h.mailer.failed = true

	_, err := h.service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	assert.Error(t, err)
}

// raceUserRepo loses the create race on purpose: its Create call plants a
// competitor account (as if another request committed first) and reports the
// unique-index conflict, so the service's re-find recovery path runs.
type raceUserRepo struct {
	fakeUserRepo
	competitor *auth.User
}

func (repo *raceUserRepo) Create(ctx context.Context, user *auth.User) error {
	if repo.competitor != nil {
		clone := *repo.competitor
		repo.users = append(repo.users, &clone)
		repo.competitor = nil
		return apperr.Conflict("Resource already exists")
	}
	return repo.fakeUserRepo.Create(ctx, user)
}

func newRaceHarness(competitor *auth.User) (*auth.Service, *raceUserRepo) {
	repo := &raceUserRepo{competitor: competitor}
	service := auth.NewService(repo, &fakeThrottle{}, &fakeTokenProvider{},
		sec.NewCodeDeriver("test-secret"), &fakeMailer{}, "support@laurel.app")
	return service, repo
}

func TestSignup_LostCreateRaceReusesWinner(t *testing.T) {
	service, repo := newRaceHarness(&auth.User{
		ID:       "winner-id",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     sec.RoleUser,
	})

	user, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	// The concurrent winner registered the exact same pair, so the loser
	// silently picks up the winner's account instead of erroring.
	require.NoError(t, err)
	assert.Equal(t, "winner-id", user.ID)
	assert.Len(t, repo.users, 1)
}

func TestSignup_LostCreateRacePartialCollisionIsConflict(t *testing.T) {
	service, _ := newRaceHarness(&auth.User{
		ID:       "winner-id",
		Username: "alice",
		Email:    "different@example.com",
		Role:     sec.RoleUser,
	})

	// The competitor took only the username; the re-find misses and the
	// conflict surfaces to the caller.
	_, err := service.Signup(context.Background(), auth.SignupInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	assert.True(t, apperr.IsConflict(err))
}

// # Token Issuance

func TestIssueToken_UnknownUsernameIsNotFound(t *testing.T) {
	h := newHarness()

	_, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "ghost",
		ConfirmationCode: "whatever",
	})

	assert.True(t, apperr.IsNotFound(err))
}

func TestIssueToken_WrongCodeIsFieldScopedValidationError(t *testing.T) {
	h := newHarness()
	h.signup(t, "alice", "alice@example.com")

	_, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: "DEFINITELYWRONG234",
	})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "confirmation_code", ae.Details[0].Field)
}

func TestIssueToken_AcceptsEmailedCode(t *testing.T) {
	h := newHarness()
	user := h.signup(t, "alice", "alice@example.com")
	code := h.mailer.lastCode(t)

	token, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: code,
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+user.ID, token)
	assert.Equal(t, "user", h.tokens.lastRole)
}

func TestIssueToken_AcceptsDerivedToken(t *testing.T) {
	h := newHarness()
	user := h.signup(t, "alice", "alice@example.com")

	derived := h.deriver.Derive(user.ID, user.Email, user.CodeIssuedAt)
	token, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: derived,
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-for-"+user.ID, token)
}

func TestIssueToken_ReissueRotatesEmailedCode(t *testing.T) {
	h := newHarness()
	h.signup(t, "alice", "alice@example.com")
	oldCode := h.mailer.lastCode(t)

	h.signup(t, "alice", "alice@example.com")
	newCode := h.mailer.lastCode(t)

	// The stale code is dead.
	_, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: oldCode,
	})
	assert.Error(t, err)

	// The current code works, and keeps working until the next rotation.
	for i := 0; i < 2; i++ {
		_, err := h.service.IssueToken(context.Background(), auth.TokenInput{
			Username:         "alice",
			ConfirmationCode: newCode,
		})
		assert.NoError(t, err)
	}
}

func TestIssueToken_ReissueRotatesDerivedToken(t *testing.T) {
	h := newHarness()
	user := h.signup(t, "alice", "alice@example.com")

	// The derived token is bound to the issuance instant: pin a visibly
	// older instant on the record and the token derived from it dies as
	// soon as the instant moves forward.
	past := user.CodeIssuedAt.Add(-time.Minute)
	require.NoError(t, h.users.SetConfirmationCode(context.Background(), user.ID, user.ConfirmationCodeHash, past))
	staleDerived := h.deriver.Derive(user.ID, user.Email, past)

	_, err := h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: staleDerived,
	})
	require.NoError(t, err, "token derived from the current instant is valid")

	require.NoError(t, h.users.SetConfirmationCode(context.Background(), user.ID, user.ConfirmationCodeHash, past.Add(time.Minute)))

	_, err = h.service.IssueToken(context.Background(), auth.TokenInput{
		Username:         "alice",
		ConfirmationCode: staleDerived,
	})
	assert.Error(t, err, "rotation invalidates previously derived tokens")
}
