package dto

// UserInfo represents user data in responses
type UserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// DeleteUserRequest identifies the user to delete by email
type DeleteUserRequest struct {
	Email *string `json:"email"`
}

// DeleteUserResult reports the cleanup performed alongside the deletion
type DeleteUserResult struct {
	DeletedTransactions int64 `json:"deletedTransactions"`
	DeletedFromGroup    bool  `json:"deletedFromGroup"`
}
