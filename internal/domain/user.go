package domain

import "time"

// Challenge is the pending-verification record attached to an unverified User.
// ExpiresAt is a Unix timestamp; the code is only valid until then.
type Challenge struct {
	Code      string `json:"-" dynamodbav:"code"`
	ExpiresAt int64  `json:"-" dynamodbav:"expires_at"`
}

// User is one registrant. The users table is keyed by email so that
// registration can be a single conditional put (no delete-then-create race).
type User struct {
	UserID       string     `json:"id" dynamodbav:"user_id"`
	Email        string     `json:"email" dynamodbav:"email"`
	Name         string     `json:"name" dynamodbav:"name"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash"`
	Verified     bool       `json:"verified" dynamodbav:"verified"`
	Challenge    *Challenge `json:"-" dynamodbav:"challenge,omitempty"`
	HeightCm     *float64   `json:"height,omitempty" dynamodbav:"height_cm,omitempty"`
	WeightKg     *float64   `json:"weight,omitempty" dynamodbav:"weight_kg,omitempty"`
	Gender       string     `json:"gender,omitempty" dynamodbav:"gender,omitempty"`
	Age          *int       `json:"age,omitempty" dynamodbav:"age,omitempty"`
	AvatarKey    string     `json:"-" dynamodbav:"avatar_key,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty" dynamodbav:"-"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// ChallengeIssuedAt derives the creation time of the outstanding challenge
// from its expiry and the validity window.
func (u *User) ChallengeIssuedAt(ttl time.Duration) time.Time {
	if u.Challenge == nil {
		return time.Time{}
	}
	return time.Unix(u.Challenge.ExpiresAt, 0).Add(-ttl)
}
