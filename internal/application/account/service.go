package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"github.com/fitfusion/fitfusion-api/internal/pkg/id"
	"github.com/fitfusion/fitfusion-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// otpTTL is the challenge validity window: expiry is always exactly this far
// from the challenge's creation, for registration and resend alike.
const otpTTL = 10 * time.Minute

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// AuthResult is returned when a session token is issued.
type AuthResult struct {
	Token string
	Name  string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (pendingEmail string, err error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Contact(ctx context.Context, req ContactRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreatePending(ctx context.Context, u *domain.User) error
	ReplaceChallenge(ctx context.Context, email string, c *domain.Challenge) error
	MarkVerified(ctx context.Context, email string) error
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type jwtSigner interface {
	Sign(userID, email string) (string, error)
}

type service struct {
	users          userStore
	mailer         mailer
	jwtProvider    jwtSigner
	resendCooldown time.Duration
	contactEmail   string
}

type ServiceDeps struct {
	UserRepo       userStore
	Mailer         mailer
	JWTProvider    jwtSigner
	ResendCooldown time.Duration
	ContactEmail   string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:          deps.UserRepo,
		mailer:         deps.Mailer,
		jwtProvider:    deps.JWTProvider,
		resendCooldown: deps.ResendCooldown,
		contactEmail:   deps.ContactEmail,
	}
}

// Register creates a pending account and delivers its verification code.
// The email is sent before anything is persisted: if delivery fails, no
// account exists and the caller must retry the full registration. The final
// put is conditional on the email not belonging to a verified account; an
// abandoned unverified record for the same email is overwritten in the same
// write.
func (s *service) Register(ctx context.Context, req RegisterRequest) (string, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if existing != nil && existing.Verified {
		return "", fmt.Errorf("account already exists: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	code, err := otp.NewCode()
	if err != nil {
		return "", err
	}

	if err := s.mailer.SendEmail(ctx, req.Email, registrationSubject, verificationEmailBody(req.Name, code)); err != nil {
		return "", fmt.Errorf("could not send verification code: %w", domain.ErrDeliveryFailed)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Verified:     false,
		Challenge: &domain.Challenge{
			Code:      code,
			ExpiresAt: now.Add(otpTTL).Unix(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreatePending(ctx, u); err != nil {
		return "", err
	}
	return req.Email, nil
}

// VerifyOTP consumes the outstanding challenge. A matching code that is past
// its expiry is still rejected; the expiry check is independent of the match.
// On success the challenge is removed outright, so replaying the same code
// hits the no-challenge path and fails with ErrInvalidCode.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.Challenge == nil || u.Challenge.Code != req.OTP {
		return nil, fmt.Errorf("invalid OTP: %w", domain.ErrInvalidCode)
	}
	if time.Now().Unix() > u.Challenge.ExpiresAt {
		return nil, fmt.Errorf("OTP has expired: %w", domain.ErrCodeExpired)
	}
	if err := s.users.MarkVerified(ctx, u.Email); err != nil {
		return nil, err
	}
	token, err := s.jwtProvider.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Name: u.Name}, nil
}

// ResendOTP replaces the outstanding challenge on an unverified account with a
// fresh code. The new code is delivered first; a failed delivery leaves the
// previous challenge untouched. Once the store is updated only the newest code
// is valid.
func (s *service) ResendOTP(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || u.Verified {
		return fmt.Errorf("no unverified account for email: %w", domain.ErrNotFound)
	}
	if s.resendCooldown > 0 && u.Challenge != nil {
		if time.Since(u.ChallengeIssuedAt(otpTTL)) < s.resendCooldown {
			return fmt.Errorf("code was requested too recently: %w", domain.ErrTooManyRequests)
		}
	}

	code, err := otp.NewCode()
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(ctx, email, resendSubject, resendEmailBody(u.Name, code)); err != nil {
		return fmt.Errorf("could not send verification code: %w", domain.ErrDeliveryFailed)
	}
	return s.users.ReplaceChallenge(ctx, email, &domain.Challenge{
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(otpTTL).Unix(),
	})
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if !u.Verified {
		return nil, fmt.Errorf("email not verified: %w", domain.ErrUnauthorized)
	}
	token, err := s.jwtProvider.Sign(u.UserID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Name: u.Name}, nil
}

// Contact relays a contact-form submission to the support inbox.
func (s *service) Contact(ctx context.Context, req ContactRequest) error {
	if err := s.mailer.SendEmail(ctx, s.contactEmail, contactSubject, contactEmailBody(req)); err != nil {
		return fmt.Errorf("could not send message: %w", domain.ErrDeliveryFailed)
	}
	return nil
}
