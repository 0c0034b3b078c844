package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fitfusion/fitfusion-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// avatarURLTTL bounds how long a presigned avatar link stays valid.
const avatarURLTTL = 15 * time.Minute

// UpdateRequest carries profile changes. Numeric fields arrive as strings from
// the client and are parsed and range-checked here; empty string means "leave
// unchanged".
type UpdateRequest struct {
	Name     string `json:"name"`
	Height   string `json:"height"`
	Weight   string `json:"weight"`
	Gender   string `json:"gender"`
	Age      string `json:"age"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

type Service interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, email string, req UpdateRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

type objectStore interface {
	UploadBase64(ctx context.Context, key, b64Data, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	users   userStore
	objects objectStore
}

type ServiceDeps struct {
	UserRepo    userStore
	ObjectStore objectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo, objects: deps.ObjectStore}
}

// Get returns the profile with a fresh presigned avatar URL when one is
// stored. A presign failure degrades to a profile without an avatar link.
func (s *service) Get(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.AvatarKey != "" {
		url, err := s.objects.PresignedURL(ctx, u.AvatarKey, avatarURLTTL)
		if err != nil {
			slog.Warn("failed to presign avatar url", "user_id", u.UserID, "err", err)
		} else {
			u.AvatarURL = url
		}
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, email string, req UpdateRequest) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	updates, err := buildUpdates(req)
	if err != nil {
		return nil, err
	}

	if req.Avatar != "" {
		key := "avatars/" + u.UserID
		contentType, data := splitDataURL(req.Avatar)
		if err := s.objects.UploadBase64(ctx, key, data, contentType); err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		updates["avatar_key"] = key
	}

	if len(updates) > 0 {
		if err := s.users.Update(ctx, email, updates); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, email)
}

// buildUpdates converts the string-typed request into typed attribute updates,
// rejecting anything outside the accepted ranges.
func buildUpdates(req UpdateRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	if req.Name != "" {
		if len(req.Name) > 100 {
			return nil, fmt.Errorf("name too long: %w", domain.ErrBadRequest)
		}
		updates["name"] = req.Name
	}
	if req.Height != "" {
		h, err := strconv.ParseFloat(req.Height, 64)
		if err != nil || h <= 0 || h > 300 {
			return nil, fmt.Errorf("height must be a number between 0 and 300: %w", domain.ErrBadRequest)
		}
		updates["height_cm"] = h
	}
	if req.Weight != "" {
		w, err := strconv.ParseFloat(req.Weight, 64)
		if err != nil || w <= 0 || w > 500 {
			return nil, fmt.Errorf("weight must be a number between 0 and 500: %w", domain.ErrBadRequest)
		}
		updates["weight_kg"] = w
	}
	if req.Age != "" {
		a, err := strconv.Atoi(req.Age)
		if err != nil || a < 1 || a > 120 {
			return nil, fmt.Errorf("age must be between 1 and 120: %w", domain.ErrBadRequest)
		}
		updates["age"] = a
	}
	if req.Gender != "" {
		switch req.Gender {
		case "male", "female", "other":
			updates["gender"] = req.Gender
		default:
			return nil, fmt.Errorf("gender must be male, female or other: %w", domain.ErrBadRequest)
		}
	}
	if req.Password != "" {
		if len(req.Password) < 8 || len(req.Password) > 72 {
			return nil, fmt.Errorf("password must be 8 to 72 characters: %w", domain.ErrBadRequest)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	return updates, nil
}

// splitDataURL separates an optional "data:<type>;base64," prefix from the
// payload. Bare base64 defaults to image/jpeg.
func splitDataURL(s string) (contentType, data string) {
	if !strings.HasPrefix(s, "data:") {
		return "image/jpeg", s
	}
	rest := s[len("data:"):]
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "image/jpeg", s
	}
	return rest[:idx], rest[idx+len(";base64,"):]
}
