package models

// LoginResponse carries the URL where the user approves the request token.
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// AuthStatusResponse describes the caller's session.
type AuthStatusResponse struct {
	State         string `json:"state"`
	Authenticated bool   `json:"authenticated"`
	Guest         bool   `json:"guest"`
}
