package auth

// Principal is the caller identified by a verified bearer token.
type Principal struct {
	Subject string `json:"subject"`
}
