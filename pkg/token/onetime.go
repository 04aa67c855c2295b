package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// ResetState is the part of a user that a password reset token is bound to.
// Changing any of it invalidates outstanding tokens.
type ResetState struct {
	UserID       string
	PasswordHash string
	Email        string
	LastLogin    *time.Time
}

// ResetTokens issues single-use, time-windowed password reset tokens.
// Tokens are not stored; they are "<base36 issued-at>-<hex hmac>".
type ResetTokens struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

func NewResetTokens(secret string, timeout time.Duration) *ResetTokens {
	return &ResetTokens{
		secret:  []byte(secret),
		timeout: timeout,
		now:     time.Now,
	}
}

func (g *ResetTokens) Make(state ResetState) string {
	return g.makeAt(state, g.now().Unix())
}

// Check reports whether token was issued for state and is still in its window.
func (g *ResetTokens) Check(state ResetState, token string) bool {
	tsPart, _, found := strings.Cut(token, "-")
	if !found {
		return false
	}

	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	expected := g.makeAt(state, ts)
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return false
	}

	age := g.now().Unix() - ts
	return age >= 0 && time.Duration(age)*time.Second <= g.timeout
}

func (g *ResetTokens) makeAt(state ResetState, ts int64) string {
	var lastLogin string
	if state.LastLogin != nil {
		lastLogin = strconv.FormatInt(state.LastLogin.UTC().Unix(), 10)
	}

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(strings.Join([]string{
		"password-reset",
		state.UserID,
		state.PasswordHash,
		lastLogin,
		state.Email,
		strconv.FormatInt(ts, 10),
	}, "|")))

	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil))
}
