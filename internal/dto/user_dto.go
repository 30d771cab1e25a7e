package dto

// UserUpdateRequest applies PATCH semantics over the caller's own record.
type UserUpdateRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}
