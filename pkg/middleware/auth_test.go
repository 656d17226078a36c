package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-booking/internal/data/entity"
	"event-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSessionRepo struct {
	session *entity.Session
	calls   int
}

func (r *stubSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	r.calls++
	return r.session, nil
}

type stubUserRepo struct {
	user *entity.User
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.user, nil
}

func validSession(userID uuid.UUID) *entity.Session {
	return &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:     userID,
		Token:      uuid.New(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func runAuth(t *testing.T, sessions *stubSessionRepo, users *stubUserRepo, authHeader string) (*httptest.ResponseRecorder, context.Context) {
	t.Helper()

	var seen context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	AuthSession(sessions, users, zap.NewNop())(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthSession_ResolvesUserRole(t *testing.T) {
	userID := uuid.New()
	sessions := &stubSessionRepo{session: validSession(userID)}
	users := &stubUserRepo{user: &entity.User{
		Base: entity.Base{ID: userID},
		Role: "organizer",
	}}

	rec, ctx := runAuth(t, sessions, users, "Bearer "+uuid.New().String())

	require.Equal(t, http.StatusOK, rec.Code)
	gotID, ok := utils.GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
	role, ok := utils.GetRoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "organizer", role)
}

func TestAuthSession_DefaultsRoleWhenUserRowMissing(t *testing.T) {
	sessions := &stubSessionRepo{session: validSession(uuid.New())}
	users := &stubUserRepo{}

	rec, ctx := runAuth(t, sessions, users, "Bearer "+uuid.New().String())

	require.Equal(t, http.StatusOK, rec.Code)
	role, ok := utils.GetRoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, DefaultRole, role)
}

func TestAuthSession_MalformedTokenIs401WithoutLookup(t *testing.T) {
	sessions := &stubSessionRepo{}
	users := &stubUserRepo{}

	rec, _ := runAuth(t, sessions, users, "Bearer not-a-uuid")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, sessions.calls, "malformed tokens must not reach the database")
}

func TestAuthSession_MissingHeaderIs401(t *testing.T) {
	rec, _ := runAuth(t, &stubSessionRepo{}, &stubUserRepo{}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSession_WrongSchemeIs401(t *testing.T) {
	rec, _ := runAuth(t, &stubSessionRepo{}, &stubUserRepo{}, "Basic "+uuid.New().String())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSession_UnknownSessionIs401(t *testing.T) {
	sessions := &stubSessionRepo{} // no session behind the token

	rec, _ := runAuth(t, sessions, &stubUserRepo{}, "Bearer "+uuid.New().String())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, sessions.calls)
}
