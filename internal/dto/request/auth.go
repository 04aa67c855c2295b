package request

// SignUpRequest is the body of POST /signup. BaseURL is filled by the
// handler and used to build the verification link.
type SignUpRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Gender        string `json:"gender" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Username      string `json:"username" validate:"required,max=50"`
	DateOfBirth   string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address       string `json:"address" validate:"required,max=255"`
	PhoneNumber   string `json:"phone_number" validate:"required,max=13"`
	LicenseNumber string `json:"license_number" validate:"required,max=50"`
	Password      string `json:"password" validate:"required,min=8,max=50"`
	BaseURL       string `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=50"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}
