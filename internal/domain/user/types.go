package user

import "time"

// User is a chat participant. UserNo is the sequential public identifier the
// frontend exchanges; Number is the unique phone number used for login.
type User struct {
	ID        int64     `json:"-"`
	UserNo    int64     `json:"userId"`
	FullName  string    `json:"fullname"`
	Username  string    `json:"username"`
	Number    string    `json:"number"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRequest captures the signup payload.
type CreateRequest struct {
	FullName string `json:"fullname"`
	Username string `json:"username"`
	Number   string `json:"number"`
	Role     string `json:"role"`
}

// LoginRequest identifies a user by phone number only.
type LoginRequest struct {
	Number string `json:"number"`
}
