package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errMalformedUID = errors.New("malformed uid")

// PasswordResetTokens makes single-use, time limited reset tokens. A token
// is "<base36 issue time>-<hmac>"; the HMAC covers the password hash and
// last login, so it stops validating once either changes.
type PasswordResetTokens struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

func NewPasswordResetTokens(secret string, timeout time.Duration) *PasswordResetTokens {
	if timeout <= 0 {
		timeout = 72 * time.Hour
	}
	return &PasswordResetTokens{secret: []byte(secret), timeout: timeout, now: time.Now}
}

func (p *PasswordResetTokens) Make(acc *Account) string {
	return p.makeAt(acc, p.now().Unix())
}

func (p *PasswordResetTokens) makeAt(acc *Account, ts int64) string {
	return strconv.FormatInt(ts, 36) + "-" + p.sign(acc, ts)
}

func (p *PasswordResetTokens) Check(acc *Account, token string) bool {
	if acc == nil || token == "" {
		return false
	}
	tsPart, _, ok := strings.Cut(token, "-")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}
	if !hmac.Equal([]byte(p.makeAt(acc, ts)), []byte(token)) {
		return false
	}
	age := p.now().Sub(time.Unix(ts, 0))
	return age >= 0 && age <= p.timeout
}

func (p *PasswordResetTokens) sign(acc *Account, ts int64) string {
	var lastLogin string
	if acc.LastLogin != nil {
		lastLogin = strconv.FormatInt(acc.LastLogin.UTC().Unix(), 10)
	}
	mac := hmac.New(sha256.New, p.secret)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%d", acc.ID, acc.PasswordHash, lastLogin, acc.Email, ts)
	return hex.EncodeToString(mac.Sum(nil))[:40]
}

// EncodeUID renders a user id the way it appears in reset links.
func EncodeUID(userID int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(userID, 10)))
}

func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, errMalformedUID
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errMalformedUID
	}
	return id, nil
}

// ResetLink joins the configured base URL with uid and token.
func ResetLink(baseURL, uid, token string) string {
	return strings.TrimRight(baseURL, "/") + "/" + uid + "/" + token + "/"
}
