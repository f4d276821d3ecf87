package domain

import "time"

// Role is the permission level attached to a user account
type Role string

const (
	RoleRegular Role = "Regular"
	RoleAdmin   Role = "Admin"
)

// User is a registered account. RefreshToken holds the single currently
// valid refresh token for the account: set at login, cleared at logout,
// empty until the first login.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	RefreshToken string
	CreatedAt    time.Time
}

// Category is a transaction type with a display color. Its primary key is
// the type string itself; CreatedAt drives the "oldest survivor" rule when
// categories are deleted in bulk.
type Category struct {
	Type      string
	Color     string
	CreatedAt time.Time
}

// Transaction is a single expense recorded by a user. Type is a soft
// reference to Category.Type; deleting a category repoints transactions
// instead of deleting them.
type Transaction struct {
	ID       string
	Username string
	Type     string
	Amount   float64
	Date     time.Time
}

// TransactionDetail is a transaction joined with its category color, the
// shape every listing endpoint returns.
type TransactionDetail struct {
	Username string
	Type     string
	Amount   float64
	Date     time.Time
	Color    string
}

// GroupMember identifies a group member by email
type GroupMember struct {
	Email string
}

// Group is a named pool of users. An email belongs to at most one group and
// a group never shrinks to zero members.
type Group struct {
	ID      string
	Name    string
	Members []GroupMember
}
