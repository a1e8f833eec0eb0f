package account

// User is a stored credential record. Records may carry other keys; only the
// password is read.
type User struct {
	Password string `json:"password"`
}

// Users maps a username to its credentials.
type Users map[string]User

// LoginRequest is the body accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
