package service

import (
	"fmt"
	"net/url"
	"strings"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// CalService builds booking links against the public scheduling provider.
type CalService struct {
	baseURL string
}

// NewCalService constructs the service. An empty base falls back to cal.com.
func NewCalService(baseURL string) *CalService {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://cal.com"
	}
	return &CalService{baseURL: baseURL}
}

// PublicBookingURL returns the mentor's public booking page.
func (s *CalService) PublicBookingURL(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", appErrors.Validation("calendar username is required")
	}
	return fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(username)), nil
}

// EmbedBookingURL returns the booking page in its embeddable form.
func (s *CalService) EmbedBookingURL(username string) (string, error) {
	public, err := s.PublicBookingURL(username)
	if err != nil {
		return "", err
	}
	return public + "?embed=true", nil
}

// IsManagedBookingURL reports whether the URL points at the configured
// scheduling provider.
func (s *CalService) IsManagedBookingURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && strings.EqualFold(parsed.Host, base.Host)
}
