package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) CreatePending(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) ReplaceChallenge(ctx context.Context, email string, c *domain.Challenge) error {
	return m.Called(ctx, email, c).Error(0)
}
func (m *mockUserStore) MarkVerified(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(us *mockUserStore, ml *mockMailer, jwt *mockJWTSigner, cooldown time.Duration) Service {
	return NewService(ServiceDeps{
		UserRepo:       us,
		Mailer:         ml,
		JWTProvider:    jwt,
		ResendCooldown: cooldown,
		ContactEmail:   "support@fitfusion.app",
	})
}

func registerReq() RegisterRequest {
	return RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "password123"}
}

func unverifiedUser(code string, expiresAt time.Time) *domain.User {
	return &domain.User{
		UserID:   "u1",
		Email:    "a@x.com",
		Name:     "Ann",
		Verified: false,
		Challenge: &domain.Challenge{
			Code:      code,
			ExpiresAt: expiresAt.Unix(),
		},
	}
}

// --- Register ---

func TestRegister_VerifiedEmail_AlwaysConflicts(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{Email: "a@x.com", Verified: true}, nil)

	svc := newService(us, nil, nil, 0)

	// Regardless of name or credential supplied.
	for _, req := range []RegisterRequest{
		registerReq(),
		{Name: "Other", Email: "a@x.com", Password: "differentpw"},
	} {
		_, err := svc.Register(context.Background(), req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	}
	us.AssertExpectations(t)
}

func TestRegister_DeliveryFailure_PersistsNothing(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ml.On("SendEmail", mock.Anything, "a@x.com", registrationSubject, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(us, ml, nil, 0)
	_, err := svc.Register(context.Background(), registerReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeliveryFailed))
	us.AssertNotCalled(t, "CreatePending", mock.Anything, mock.Anything)
	ml.AssertExpectations(t)
}

func TestRegister_HappyPath_SendsThenPersists(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ml.On("SendEmail", mock.Anything, "a@x.com", registrationSubject, mock.Anything).Return(nil)

	var stored *domain.User
	us.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := newService(us, ml, nil, 0)
	email, err := svc.Register(context.Background(), registerReq())

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", email)
	require.NotNil(t, stored)
	assert.False(t, stored.Verified)
	require.NotNil(t, stored.Challenge)
	assert.Len(t, stored.Challenge.Code, 6)
	assert.InDelta(t, time.Now().Add(otpTTL).Unix(), stored.Challenge.ExpiresAt, 2)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	us.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRegister_UnverifiedRecord_DiscardedByConditionalPut(t *testing.T) {
	// A stale unverified registration never blocks a fresh one: the store
	// receives a new pending user carrying a brand-new challenge, and the
	// conditional put replaces the old record in the same write.
	us := &mockUserStore{}
	ml := &mockMailer{}
	stale := unverifiedUser("111111", time.Now().Add(5*time.Minute))
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(stale, nil)
	ml.On("SendEmail", mock.Anything, "a@x.com", registrationSubject, mock.Anything).Return(nil)

	var stored *domain.User
	us.On("CreatePending", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.User) }).
		Return(nil)

	svc := newService(us, ml, nil, 0)
	_, err := svc.Register(context.Background(), registerReq())

	require.NoError(t, err)
	require.NotNil(t, stored.Challenge)
	assert.NotEqual(t, "111111", stored.Challenge.Code)
	us.AssertExpectations(t)
}

func TestRegister_ConcurrentLoser_SurfacesConflict(t *testing.T) {
	// When two registrations race, the conditional put rejects the loser.
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	us.On("CreatePending", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	svc := newService(us, ml, nil, 0)
	_, err := svc.Register(context.Background(), registerReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- VerifyOTP ---

func TestVerifyOTP_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, 0)
	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@x.com", OTP: "123456"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifyOTP_MismatchByOneDigit(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("123456", time.Now().Add(5*time.Minute)), nil)

	svc := newService(us, nil, nil, 0)
	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@x.com", OTP: "123457"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
	us.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestVerifyOTP_MatchingButExpired_Rejected(t *testing.T) {
	// Correct code submitted one second past expiry: the expiry check is
	// independent of the match and must still reject.
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("123456", time.Now().Add(-time.Second)), nil)

	svc := newService(us, nil, nil, 0)
	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@x.com", OTP: "123456"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeExpired))
	us.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestVerifyOTP_HappyPath_IssuesToken(t *testing.T) {
	us := &mockUserStore{}
	jwt := &mockJWTSigner{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("123456", time.Now().Add(5*time.Minute)), nil)
	us.On("MarkVerified", mock.Anything, "a@x.com").Return(nil)
	jwt.On("Sign", "u1", "a@x.com").Return("token-abc", nil)

	svc := newService(us, nil, jwt, 0)
	res, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@x.com", OTP: "123456"})

	require.NoError(t, err)
	assert.Equal(t, "token-abc", res.Token)
	assert.Equal(t, "Ann", res.Name)
	us.AssertExpectations(t)
	jwt.AssertExpectations(t)
}

func TestVerifyOTP_Replay_FailsWithInvalidCode(t *testing.T) {
	// After a successful verify the challenge is cleared; replaying the same
	// code takes the no-challenge path and is classified as InvalidCode.
	us := &mockUserStore{}
	verified := &domain.User{UserID: "u1", Email: "a@x.com", Name: "Ann", Verified: true, Challenge: nil}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(verified, nil)

	svc := newService(us, nil, nil, 0)
	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "a@x.com", OTP: "123456"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

// --- ResendOTP ---

func TestResendOTP_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, 0)
	err := svc.ResendOTP(context.Background(), "a@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResendOTP_VerifiedAccount_NotFound(t *testing.T) {
	// Resend is only meaningful pre-verification.
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{Email: "a@x.com", Verified: true}, nil)

	svc := newService(us, nil, nil, 0)
	err := svc.ResendOTP(context.Background(), "a@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResendOTP_DeliveryFailure_KeepsOldChallenge(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("111111", time.Now().Add(5*time.Minute)), nil)
	ml.On("SendEmail", mock.Anything, "a@x.com", resendSubject, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(us, ml, nil, 0)
	err := svc.ResendOTP(context.Background(), "a@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeliveryFailed))
	us.AssertNotCalled(t, "ReplaceChallenge", mock.Anything, mock.Anything, mock.Anything)
}

func TestResendOTP_ReplacesChallenge(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("111111", time.Now().Add(5*time.Minute)), nil)
	ml.On("SendEmail", mock.Anything, "a@x.com", resendSubject, mock.Anything).Return(nil)

	var replaced *domain.Challenge
	us.On("ReplaceChallenge", mock.Anything, "a@x.com", mock.AnythingOfType("*domain.Challenge")).
		Run(func(args mock.Arguments) { replaced = args.Get(2).(*domain.Challenge) }).
		Return(nil)

	svc := newService(us, ml, nil, 0)
	err := svc.ResendOTP(context.Background(), "a@x.com")

	require.NoError(t, err)
	require.NotNil(t, replaced)
	assert.Len(t, replaced.Code, 6)
	assert.InDelta(t, time.Now().Add(otpTTL).Unix(), replaced.ExpiresAt, 2)
	us.AssertExpectations(t)
}

func TestResendOTP_WithinCooldown_Rejected(t *testing.T) {
	us := &mockUserStore{}
	// Challenge issued just now: expiry is a full otpTTL away.
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("111111", time.Now().Add(otpTTL)), nil)

	svc := newService(us, nil, nil, time.Minute)
	err := svc.ResendOTP(context.Background(), "a@x.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTooManyRequests))
}

func TestResendOTP_AfterCooldown_Allowed(t *testing.T) {
	us := &mockUserStore{}
	ml := &mockMailer{}
	// Challenge issued two minutes ago.
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(unverifiedUser("111111", time.Now().Add(otpTTL-2*time.Minute)), nil)
	ml.On("SendEmail", mock.Anything, "a@x.com", resendSubject, mock.Anything).Return(nil)
	us.On("ReplaceChallenge", mock.Anything, "a@x.com", mock.Anything).Return(nil)

	svc := newService(us, ml, nil, time.Minute)
	require.NoError(t, svc.ResendOTP(context.Background(), "a@x.com"))
	us.AssertExpectations(t)
}

// --- full lifecycle scenario ---

// fakeUserStore is a tiny in-memory store used for the end-to-end scenario,
// mirroring the conditional-write semantics of the DynamoDB repo.
type fakeUserStore struct {
	users map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
func (f *fakeUserStore) CreatePending(_ context.Context, u *domain.User) error {
	if existing, ok := f.users[u.Email]; ok && existing.Verified {
		return domain.ErrConflict
	}
	cp := *u
	f.users[u.Email] = &cp
	return nil
}
func (f *fakeUserStore) ReplaceChallenge(_ context.Context, email string, c *domain.Challenge) error {
	u, ok := f.users[email]
	if !ok || u.Verified {
		return domain.ErrNotFound
	}
	u.Challenge = c
	return nil
}
func (f *fakeUserStore) MarkVerified(_ context.Context, email string) error {
	u, ok := f.users[email]
	if !ok {
		return domain.ErrNotFound
	}
	u.Verified = true
	u.Challenge = nil
	return nil
}

// captureMailer records the code embedded in each delivered email body.
type captureMailer struct {
	bodies []string
}

func (c *captureMailer) SendEmail(_ context.Context, _, _, body string) error {
	c.bodies = append(c.bodies, body)
	return nil
}

// extractCode pulls the 6-digit code out of a rendered email body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	for i := 0; i+6 <= len(body); i++ {
		code := body[i : i+6]
		digits := true
		for _, r := range code {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			return code
		}
	}
	t.Fatal("no 6-digit code found in email body")
	return ""
}

type staticSigner struct{}

func (staticSigner) Sign(userID, email string) (string, error) { return "token-" + userID, nil }

func TestLifecycle_RegisterResendVerifyReplay(t *testing.T) {
	store := newFakeUserStore()
	mail := &captureMailer{}
	svc := NewService(ServiceDeps{
		UserRepo:    store,
		Mailer:      mail,
		JWTProvider: staticSigner{},
	})
	ctx := context.Background()

	// register → capture C1
	_, err := svc.Register(ctx, RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	require.Len(t, mail.bodies, 1)
	c1 := extractCode(t, mail.bodies[0])

	// resend until the captured codes differ; a collision between two random
	// codes is possible, so loop instead of asserting inequality once
	c2 := c1
	for c2 == c1 {
		require.NoError(t, svc.ResendOTP(ctx, "a@x.com"))
		c2 = extractCode(t, mail.bodies[len(mail.bodies)-1])
	}

	// verify with stale C1 fails even though it has not expired
	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "a@x.com", OTP: c1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))

	// verify with C2 succeeds
	res, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "a@x.com", OTP: c2})
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.Name)
	assert.NotEmpty(t, res.Token)

	// replaying C2 fails: the challenge was cleared on success
	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "a@x.com", OTP: c2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))

	// a verified email can never register again
	_, err = svc.Register(ctx, RegisterRequest{Name: "Imposter", Email: "a@x.com", Password: "otherpass1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	// and cannot receive a resend
	err = svc.ResendOTP(ctx, "a@x.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLifecycle_SecondRegistrationDiscardsFirstCode(t *testing.T) {
	store := newFakeUserStore()
	mail := &captureMailer{}
	svc := NewService(ServiceDeps{UserRepo: store, Mailer: mail, JWTProvider: staticSigner{}})
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	c1 := extractCode(t, mail.bodies[0])

	c2 := c1
	for c2 == c1 {
		_, err = svc.Register(ctx, RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "password123"})
		require.NoError(t, err)
		c2 = extractCode(t, mail.bodies[len(mail.bodies)-1])
	}

	// only the second code verifies
	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "a@x.com", OTP: c1})
	require.Error(t, err)

	res, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "a@x.com", OTP: c2})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

// --- Login ---

func TestLogin_UnknownEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(us, nil, nil, 0)
	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{Email: "a@x.com", PasswordHash: string(hash), Verified: true}, nil)

	svc := newService(us, nil, nil, 0)
	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "wrong-pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UnverifiedAccount_Rejected(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{Email: "a@x.com", PasswordHash: string(hash), Verified: false}, nil)

	svc := newService(us, nil, nil, 0)
	_, err = svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "correct-pw"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.ErrorContains(t, err, "not verified")
}

func TestLogin_HappyPath(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-pw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	us := &mockUserStore{}
	jwt := &mockJWTSigner{}
	us.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1", Email: "a@x.com", Name: "Ann", PasswordHash: string(hash), Verified: true}, nil)
	jwt.On("Sign", "u1", "a@x.com").Return("token-abc", nil)

	svc := newService(us, nil, jwt, 0)
	res, err := svc.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "correct-pw"})

	require.NoError(t, err)
	assert.Equal(t, "token-abc", res.Token)
	assert.Equal(t, "Ann", res.Name)
}

// --- Contact ---

func TestContact_RelaysToSupportInbox(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, "support@fitfusion.app", contactSubject, mock.Anything).Return(nil)

	svc := newService(nil, ml, nil, 0)
	err := svc.Contact(context.Background(), ContactRequest{Name: "Ann", Email: "a@x.com", Message: "hi"})

	require.NoError(t, err)
	ml.AssertExpectations(t)
}

func TestContact_DeliveryFailure(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(nil, ml, nil, 0)
	err := svc.Contact(context.Background(), ContactRequest{Name: "Ann", Email: "a@x.com", Message: "hi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeliveryFailed))
}
