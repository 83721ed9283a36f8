package dto

// LoginRequest is the credential payload for /api/auth/login.
type LoginRequest struct {
	SchoolName string `json:"schoolName" validate:"required,min=1"`
	Username   string `json:"username" validate:"required,min=1"`
	Password   string `json:"password" validate:"required,min=1"`
	Role       string `json:"role" validate:"required,oneof=student teacher parent admin"`
}

// LoginResponse is returned verbatim to the client; the field set is part of
// the login contract and is not wrapped in the common envelope.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Role     string `json:"role,omitempty"`
	UserID   uint   `json:"userId,omitempty"`
	SchoolID uint   `json:"schoolId,omitempty"`
	Message  string `json:"message"`
}
