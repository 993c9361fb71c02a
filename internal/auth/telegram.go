package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Telegram login payloads older than this are rejected regardless of the
// signature.
const telegramAuthMaxAge = 24 * time.Hour

var (
	ErrTelegramSignature = errors.New("telegram signature mismatch")
	ErrTelegramExpired   = errors.New("telegram auth data expired")
)

// TelegramAuth is the payload Telegram posts after a successful login.
// Field names are Telegram's own wire format.
type TelegramAuth struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// DisplayName picks the name a new account gets on first telegram login.
func (a *TelegramAuth) DisplayName() string {
	name := strings.TrimSpace(a.Username)
	if name == "" {
		name = strings.TrimSpace(a.FirstName)
	}
	if name == "" {
		name = "tg_" + strconv.FormatInt(a.ID, 10)
	}
	return name
}

// checkString builds the canonical data-check-string: every present field
// except hash, sorted by key, joined as key=value lines.
func (a *TelegramAuth) checkString() string {
	fields := map[string]string{
		"id":        strconv.FormatInt(a.ID, 10),
		"auth_date": strconv.FormatInt(a.AuthDate, 10),
	}
	if a.FirstName != "" {
		fields["first_name"] = a.FirstName
	}
	if a.LastName != "" {
		fields["last_name"] = a.LastName
	}
	if a.Username != "" {
		fields["username"] = a.Username
	}
	if a.PhotoURL != "" {
		fields["photo_url"] = a.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(fields[k])
	}
	return sb.String()
}

// TelegramSign computes the expected hash for a payload. Exported for tests
// that need to build valid payloads.
func TelegramSign(a *TelegramAuth, botToken string) string {
	keyMac := hmac.New(sha256.New, []byte("WebAppData"))
	keyMac.Write([]byte(botToken))
	secret := keyMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(a.checkString()))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyTelegram checks the payload signature against the bot token and
// bounds the login-event freshness.
func VerifyTelegram(a *TelegramAuth, botToken string, now time.Time) error {
	expected := TelegramSign(a, botToken)
	if !hmac.Equal([]byte(expected), []byte(a.Hash)) {
		return ErrTelegramSignature
	}

	authedAt := time.Unix(a.AuthDate, 0)
	if now.Sub(authedAt) > telegramAuthMaxAge {
		return ErrTelegramExpired
	}
	return nil
}
