package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// RequestTokens derives anti-forgery tokens from the session token, so nothing extra
// has to be stored: the token is valid exactly as long as the session is.
type RequestTokens struct {
	Secret []byte
}

func (r RequestTokens) For(sessionToken string) string {
	if sessionToken == "" {
		return ""
	}
	m := hmac.New(sha256.New, r.Secret)
	m.Write([]byte("csrf:"))
	m.Write([]byte(sessionToken))
	return hex.EncodeToString(m.Sum(nil))
}

func (r RequestTokens) Verify(sessionToken, presented string) bool {
	if sessionToken == "" || presented == "" {
		return false
	}
	want := r.For(sessionToken)
	return hmac.Equal([]byte(want), []byte(presented))
}
