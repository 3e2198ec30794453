package model

// Identity is the authenticated user as delivered by the identity
// provider's callback. Email is the only required field; it is what the
// admin gate checks.
type Identity struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Picture string `json:"picture,omitempty"`
}
