package model

// TokenCodec issues and verifies access and refresh tokens.
//
// Verify methods never panic; every failure is reported as an error wrapping
// ErrTokenInvalid.
type TokenCodec interface {
	IssueAccessToken(p Principal) (string, error)
	IssueRefreshToken(p Principal) (string, error)
	VerifyAccessToken(token string) (Claims, error)
	VerifyRefreshToken(token string) (Claims, error)
}
