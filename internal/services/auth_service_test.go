package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/CoderHarshaVardhan/playX/internal/models"
	"github.com/CoderHarshaVardhan/playX/internal/repository"
	"github.com/CoderHarshaVardhan/playX/internal/testutil"
)

type mockVerificationQueue struct {
	mock.Mock
}

func (m *mockVerificationQueue) EnqueueVerification(ctx context.Context, msg VerificationEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newAuthFixture(t *testing.T) (AuthService, *TokenService, *mockVerificationQueue, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := NewTokenService([]byte("test-secret"))
	q := &mockVerificationQueue{}
	return NewAuthService(repository.NewUserRepository(db), tokens, q), tokens, q, db
}

func TestRegisterVerifyLogin(t *testing.T) {
	svc, tokens, q, _ := newAuthFixture(t)
	ctx := context.Background()

	var sent VerificationEmail
	q.On("EnqueueVerification", mock.Anything, mock.MatchedBy(func(m VerificationEmail) bool {
		return m.Email == "asha@example.com" && m.Name == "Asha" && m.Token != ""
	})).Run(func(args mock.Arguments) {
		sent = args.Get(1).(VerificationEmail)
	}).Return(nil).Once()

	u, err := svc.Register(ctx, "Asha", " Asha@Example.com ", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.False(t, u.IsVerified)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)
	q.AssertExpectations(t)
	assert.Equal(t, u.ID, sent.UserID)

	_, err = svc.Login(ctx, "asha@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	// A verification token is not a bearer token.
	_, err = tokens.Authenticate(sent.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, svc.VerifyEmail(ctx, sent.Token))

	res, err := svc.Login(ctx, "ASHA@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, UserSummary{ID: u.ID, Name: "Asha", Email: "asha@example.com"}, res.User)

	id, err := tokens.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Rejects(t *testing.T) {
	svc, _, q, _ := newAuthFixture(t)
	ctx := context.Background()
	q.On("EnqueueVerification", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(ctx, "Ravi", "ravi@example.com", "short")
	assert.Error(t, err)
	q.AssertNotCalled(t, "EnqueueVerification", mock.Anything, mock.Anything)

	_, err = svc.Register(ctx, "Ravi", "ravi@example.com", "longenough")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ravi Again", "RAVI@example.com", "longenough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_QueueFailureStillRegisters(t *testing.T) {
	svc, _, q, db := newAuthFixture(t)
	q.On("EnqueueVerification", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	u, err := svc.Register(context.Background(), "Meera", "meera@example.com", "longenough")
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestVerifyEmail_BadTokens(t *testing.T) {
	svc, tokens, _, _ := newAuthFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "not-a-token"), ErrInvalidToken)

	access, err := tokens.IssueAccess(uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, access), ErrInvalidToken)

	orphan, err := tokens.IssueVerification(uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, orphan), ErrInvalidToken)
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	ts := NewTokenService([]byte("k"))
	ts.now = func() time.Time { return issued }

	uid := uuid.New()
	tok, err := ts.IssueAccess(uid)
	require.NoError(t, err)

	ts.now = func() time.Time { return issued.Add(AccessTokenTTL - time.Minute) }
	got, err := ts.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	ts.now = func() time.Time { return issued.Add(AccessTokenTTL + time.Minute) }
	_, err = ts.Authenticate(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ts.now = func() time.Time { return issued }
	vt, err := ts.IssueVerification(uid)
	require.NoError(t, err)
	ts.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = ts.ParseVerification(vt)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	ts := NewTokenService([]byte("right"))
	other := NewTokenService([]byte("wrong"))

	tok, err := other.IssueAccess(uuid.New())
	require.NoError(t, err)
	_, err = ts.Authenticate(tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// alg=none must never be accepted.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"typ": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ts.Authenticate(unsigned)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
