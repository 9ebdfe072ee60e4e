package auth

// Claims representa la identidad extraída del token.
// Role viaja como string plano; los dominios lo parsean a su propio tipo.
type Claims struct {
	UserID string
	Role   string
	Email  string
}
