package handler

type registerRequest struct {
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=6"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role"       validate:"required,oneof=student staff admin"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=student staff admin"`
}

type changePasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type forgotPasswordRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type forgotPasswordRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type verifyEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Role    string `json:"role"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

type deleteAccountResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	DocumentsRemoved  int    `json:"documents_removed"`
	DocumentsPartial  int    `json:"documents_partial"`
	CascadeIncomplete bool   `json:"cascade_incomplete,omitempty"`
}
