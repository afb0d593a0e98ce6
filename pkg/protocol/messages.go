package protocol

// User is the session identity as it travels between server and client.
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar"`
	Role   *string `json:"role"`
}

// MeResponse answers GET /me. User is nil when Authenticated is false.
type MeResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and signup.
// On failure Success is false and Message explains why.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// AvatarResponse is returned by POST /upload_avatar.
type AvatarResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// StatusResponse is the generic {success,message} envelope used for logout and errors.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SessionCookie is the name of the cookie carrying the encoded session.
const SessionCookie = "session"
