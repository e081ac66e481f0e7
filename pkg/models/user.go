package models

import "time"

// Role identifies which view a session is routed to.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleArtisan    Role = "artisan"
	RoleAdmin      Role = "admin"
	RoleConsultant Role = "consultant"
)

// Customer is a self-registered shopper account.
type Customer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// ArtisanRequest is a pending artisan signup awaiting consultant review.
// Approval mints a new Artisan with a fresh id; the request id is never reused.
type ArtisanRequest struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
	RejectedAt  time.Time `json:"rejectedAt,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// Artisan is an approved seller account.
type Artisan struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	Phone      string    `json:"phone"`
	ApprovedAt time.Time `json:"approvedAt"`
}

// Session is the trust flag written on login and read back by every view.
// There is no expiry and no token.
type Session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
