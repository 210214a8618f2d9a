package users

import "time"

// User is an account owner. PasswordHash is empty for Google-only accounts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PictureURL   string    `json:"pictureUrl,omitempty"`
	PasswordHash string    `json:"-"`
	GoogleSub    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is returned by register and login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleProfile is the identity returned by the Google userinfo endpoint.
type GoogleProfile struct {
	Sub        string
	Email      string
	Name       string
	PictureURL string
}

// UpdateInput carries a partial profile update. Nil fields keep their value.
type UpdateInput struct {
	Email *string
	Name  *string
}
