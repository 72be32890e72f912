package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionToken string) (*domain.Session, error) {
	args := m.Called(ctx, sessionToken)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionToken string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionToken, updates).Error(0)
}
func (m *mockSessionStore) Delete(ctx context.Context, sessionToken string) error {
	return m.Called(ctx, sessionToken).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(phone, role, sessionToken string) (string, error) {
	args := m.Called(phone, role, sessionToken)
	return args.String(0), args.Error(1)
}

func newService(ss *mockSessionStore, jwt *mockJWTSigner, now func() time.Time) Service {
	return NewService(ServiceDeps{
		SessionRepo: ss,
		JWTProvider: jwt,
		SessionTTL:  30 * 24 * time.Hour,
		Now:         now,
	})
}

func liveSession(now time.Time) *domain.Session {
	return &domain.Session{
		SessionToken: "tok-1",
		Phone:        "+15550001111",
		Role:         domain.RoleCustomer,
		Enable:       true,
		ExpiresAt:    now.Add(time.Hour).Unix(),
		CreatedAt:    now.Add(-time.Hour),
		UpdatedAt:    now.Add(-time.Hour),
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := newService(ss, nil, nil)
	_, err := svc.Resolve(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_DisabledSession_Unauthorized(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sess := liveSession(now)
	sess.Enable = false

	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "tok-1").Return(sess, nil)

	svc := newService(ss, nil, func() time.Time { return now })
	_, err := svc.Resolve(context.Background(), "tok-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestResolve_ExpiredSession_Unauthorized(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sess := liveSession(now)
	sess.ExpiresAt = now.Add(-time.Second).Unix()

	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "tok-1").Return(sess, nil)

	svc := newService(ss, nil, func() time.Time { return now })
	_, err := svc.Resolve(context.Background(), "tok-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestResolve_LiveSession(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "tok-1").Return(liveSession(now), nil)

	svc := newService(ss, nil, func() time.Time { return now })
	sess, err := svc.Resolve(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "+15550001111", sess.Phone)
}

func TestRefresh_RotatesToken(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ss := &mockSessionStore{}
	jwt := &mockJWTSigner{}

	var newToken string
	ss.On("Get", mock.Anything, "tok-1").Return(liveSession(now), nil)
	ss.On("Put", mock.Anything, mock.MatchedBy(func(s *domain.Session) bool {
		newToken = s.SessionToken
		return s.SessionToken != "tok-1" && s.Enable &&
			s.Phone == "+15550001111" &&
			s.ExpiresAt == now.Add(30*24*time.Hour).Unix()
	})).Return(nil)
	ss.On("Delete", mock.Anything, "tok-1").Return(nil)
	jwt.On("Sign", "+15550001111", domain.RoleCustomer, mock.Anything).Return("fresh-bearer", nil)

	svc := newService(ss, jwt, func() time.Time { return now })
	result, err := svc.Refresh(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "fresh-bearer", result.Bearer)
	assert.Equal(t, newToken, result.SessionToken)
	assert.NotEqual(t, "tok-1", result.SessionToken)
	ss.AssertExpectations(t)
}

func TestRefresh_DeadSession_Refused(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sess := liveSession(now)
	sess.Enable = false

	ss := &mockSessionStore{}
	ss.On("Get", mock.Anything, "tok-1").Return(sess, nil)

	svc := newService(ss, nil, func() time.Time { return now })
	_, err := svc.Refresh(context.Background(), "tok-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLogout_DisablesSession(t *testing.T) {
	ss := &mockSessionStore{}
	ss.On("Update", mock.Anything, "tok-1", map[string]interface{}{"enable": false}).Return(nil)

	svc := newService(ss, nil, nil)
	require.NoError(t, svc.Logout(context.Background(), "tok-1"))
	ss.AssertExpectations(t)
}
