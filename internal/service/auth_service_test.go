package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/repository/repotest"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

type mapCache struct {
	rows map[int64]domain.Identity
	gets int
	hits int
}

func (m *mapCache) Get(_ context.Context, id int64) (*domain.Identity, bool) {
	m.gets++
	identity, ok := m.rows[id]
	if !ok {
		return nil, false
	}
	m.hits++
	return &identity, true
}

func (m *mapCache) Set(_ context.Context, identity *domain.Identity) {
	m.rows[identity.ID] = *identity
}

func newAuthFixture(t *testing.T) (*AuthService, *repotest.Users, *recorder) {
	t.Helper()
	users := repotest.NewUsers()
	rec, dispatcher := newRecorder(allEventTypes...)
	svc, err := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, Dispatcher: dispatcher})
	require.NoError(t, err)
	return svc, users, rec
}

func TestVerify(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	admin := seedUser(t, users, "ADM-001", "admin123", domain.RoleAdmin, true)
	seedUser(t, users, "STU-404", "student1", domain.RoleStudent, false)
	ctx := context.Background()

	identity, err := svc.Verify(ctx, "ADM-001", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, identity.ID)
	assert.Equal(t, "ADM-001", identity.IDNumber)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
	assert.True(t, identity.Active)

	_, err = svc.Verify(ctx, "  ADM-001  ", "admin123")
	assert.NoError(t, err, "identifier is trimmed")

	_, err = svc.Verify(ctx, "ADM-001", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "STU-404", "student1")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)

	_, err = svc.Verify(ctx, "STU-404", "not-the-password")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated, "deactivation is reported before the secret is checked")

	_, err = svc.Verify(ctx, "", "admin123")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Verify(ctx, "ADM-001", "")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestVerifyStoreUnavailable(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.Err = errors.Join(domain.ErrStoreUnavailable, errors.New("connection refused"))

	_, err := svc.Verify(context.Background(), "ADM-001", "admin123")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginIssuesClaim(t *testing.T) {
	svc, users, rec := newAuthFixture(t)
	admin := seedUser(t, users, "ADM-001", "admin123", domain.RoleAdmin, true)

	identity, issued, err := svc.Login(context.Background(), "ADM-001", "admin123")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, identity.ID)
	require.NotEmpty(t, issued.Token)

	principal, err := svc.ClaimManager().Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, principal.UserID)
	assert.Equal(t, "ADM-001", principal.Username)
	assert.Equal(t, domain.RoleAdmin, principal.Role)

	assert.Equal(t, []events.EventType{events.EventLoginSucceeded}, rec.types())
}

func TestLoginFailurePublishesReason(t *testing.T) {
	svc, users, rec := newAuthFixture(t)
	seedUser(t, users, "ADM-001", "admin123", domain.RoleAdmin, true)

	_, issued, err := svc.Login(context.Background(), "ADM-001", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Empty(t, issued.Token)

	require.Equal(t, []events.EventType{events.EventLoginFailed}, rec.types())
	payload, ok := rec.last().Payload.(events.LoginPayload)
	require.True(t, ok)
	assert.Equal(t, "ADM-001", payload.IDNumber)
	assert.Equal(t, "invalid_credentials", payload.Reason)
}

func TestProfileUsesCache(t *testing.T) {
	users := repotest.NewUsers()
	cache := &mapCache{rows: map[int64]domain.Identity{}}
	svc, err := NewAuthService(testConfig(), AuthDependencies{UserRepo: users, Cache: cache})
	require.NoError(t, err)
	student := seedUser(t, users, "STU-001", "student1", domain.RoleStudent, true)
	ctx := context.Background()

	identity, err := svc.Profile(ctx, principalFor(student))
	require.NoError(t, err)
	assert.Equal(t, student.Email, identity.Email)
	assert.Equal(t, 0, cache.hits)

	_, err = svc.Profile(ctx, principalFor(student))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.Profile(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrMissingClaim)

	_, err = svc.Profile(ctx, &auth.Principal{UserID: 999, Username: "ghost", Role: domain.RoleStudent})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, users, rec := newAuthFixture(t)
	student := seedUser(t, users, "STU-001", "student1", domain.RoleStudent, true)
	principal := principalFor(student)
	ctx := context.Background()

	require.NoError(t, svc.ChangePassword(ctx, principal, "student1", "newpass1"))

	_, err := svc.Verify(ctx, "STU-001", "student1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Verify(ctx, "STU-001", "newpass1")
	assert.NoError(t, err)

	stored, _ := users.Snapshot(student.ID)
	assert.NotEqual(t, "newpass1", stored.PasswordHash)
	assert.Contains(t, rec.types(), events.EventPasswordChanged)
}

func TestChangePasswordRejections(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	student := seedUser(t, users, "STU-001", "student1", domain.RoleStudent, true)
	principal := principalFor(student)
	ctx := context.Background()
	before, _ := users.Snapshot(student.ID)

	err := svc.ChangePassword(ctx, principal, "student1", "abc")
	assert.ErrorIs(t, err, domain.ErrWeakSecret)

	err = svc.ChangePassword(ctx, principal, "wrong-current", "abc")
	assert.ErrorIs(t, err, domain.ErrWeakSecret, "policy is checked before the current secret")

	err = svc.ChangePassword(ctx, principal, "wrong-current", "newpass1")
	assert.ErrorIs(t, err, domain.ErrIncorrectCurrentSecret)

	err = svc.ChangePassword(ctx, principal, "", "newpass1")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	err = svc.ChangePassword(ctx, nil, "student1", "newpass1")
	assert.ErrorIs(t, err, domain.ErrMissingClaim)

	err = svc.ChangePassword(ctx, &auth.Principal{UserID: 999, Username: "ghost", Role: domain.RoleStudent}, "student1", "newpass1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	after, _ := users.Snapshot(student.ID)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestChangePasswordCountsCharacters(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	student := seedUser(t, users, "STU-001", "student1", domain.RoleStudent, true)

	// Six runes, more than six bytes.
	assert.NoError(t, svc.ChangePassword(context.Background(), principalFor(student), "student1", "ñandú!"))
}
