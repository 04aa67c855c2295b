package request

type PasswordResetRequest struct {
	Email   string `json:"email" validate:"required"`
	BaseURL string `json:"-"`
}

type PasswordResetConfirmRequest struct {
	UID      string `json:"uid" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}
