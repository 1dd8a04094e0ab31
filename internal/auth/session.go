package auth

// SessionData represents the authenticated caller of a request
type SessionData struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}
