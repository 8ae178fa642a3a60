package models

// FeedItem pairs a mentee's request with the mentor profile and the derived
// schedule. Mentor is nil when the profile read fails; the feed degrades
// rather than dropping the request.
type FeedItem struct {
	Request  MentorshipRequest `json:"request"`
	Mentor   *User             `json:"mentor,omitempty"`
	Schedule *Schedule         `json:"schedule,omitempty"`
}
