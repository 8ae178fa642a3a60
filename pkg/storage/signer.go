package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signer creates and verifies download tokens for archived export files. A
// token embeds the filename and an expiry so downloads need no server state.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner constructs a signer. A non-positive TTL falls back to 24h.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Sign returns a download token for the given archived filename.
func (s *Signer) Sign(filename string) (string, time.Time, error) {
	if filename == "" {
		return "", time.Time{}, fmt.Errorf("filename required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(filename))
	signature := s.signature(encoded, expiresAt.Unix())
	token := strings.Join([]string{strconv.FormatInt(expiresAt.Unix(), 10), encoded, signature}, ".")
	return token, expiresAt, nil
}

// Verify checks a token's signature and expiry and returns the filename.
func (s *Signer) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}
	expUnix, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid token timestamp")
	}
	if !hmac.Equal([]byte(s.signature(parts[1], expUnix)), []byte(parts[2])) {
		return "", fmt.Errorf("invalid token signature")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", fmt.Errorf("token expired")
	}
	filename, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode filename: %w", err)
	}
	return string(filename), nil
}

func (s *Signer) signature(encodedName string, expUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d|%s", expUnix, encodedName)
	return hex.EncodeToString(mac.Sum(nil))
}
