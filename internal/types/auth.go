package types

// WorkerLoginRequest is the login request for the technician dashboard.
// Workers sign in with their identity document number, not an email.
type WorkerLoginRequest struct {
	Document string `json:"document" validate:"required,min=5"`
	Password string `json:"password" validate:"required"`
}

// WorkerProfile is the auth-facing view of a worker, safe to return to the
// client. Never carries the password hash.
type WorkerProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"`
}

// WorkerLoginResponse is the successful login response with the signed token.
type WorkerLoginResponse struct {
	Worker *WorkerProfile `json:"worker"`
	Token  string         `json:"token"`
}

// UpdateAvailabilityRequest toggles the authenticated worker between
// bookable states.
type UpdateAvailabilityRequest struct {
	Availability string `json:"availability" validate:"required,oneof=available partial immediate scheduled unavailable"`
}
