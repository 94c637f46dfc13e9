package auth

import "time"

type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	RoleName   string     `json:"role"`
	EmployeeID *string    `json:"employeeId,omitempty"`
	Status     string     `json:"status"`
	MFAEnabled bool       `json:"mfaEnabled"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// credentials is what login needs beyond the public user view.
type credentials struct {
	User
	PasswordHash string
	MFASecretEnc []byte
}

type NewUser struct {
	Email      string
	Password   string
	RoleName   string
	EmployeeID string
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}
