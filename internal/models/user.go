package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MentorshipStatus reflects whether a mentor currently accepts mentees.
type MentorshipStatus string

const (
	MentorshipAvailable   MentorshipStatus = "available"
	MentorshipFull        MentorshipStatus = "full"
	MentorshipUnavailable MentorshipStatus = "unavailable"
)

// MentorProfile is the mentor-side profile sub-document stored as JSONB.
type MentorProfile struct {
	Expertise        []string         `json:"expertise,omitempty"`
	Bio              string           `json:"bio,omitempty"`
	CalUsername      string           `json:"calUsername,omitempty"`
	MentorshipStatus MentorshipStatus `json:"mentorshipStatus,omitempty"`
	MaxMentees       int              `json:"maxMentees,omitempty"`
	CurrentMentees   int              `json:"currentMentees,omitempty"`
	Rating           float64          `json:"rating,omitempty"`
	TotalRatings     int              `json:"totalRatings,omitempty"`
}

// Value implements driver.Valuer for JSONB storage.
func (p MentorProfile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (p *MentorProfile) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// MenteeProfile is the mentee-side profile sub-document stored as JSONB.
type MenteeProfile struct {
	Interests       []string `json:"interests,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	LearningGoals   []string `json:"learningGoals,omitempty"`
}

// Value implements driver.Valuer for JSONB storage.
func (p MenteeProfile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (p *MenteeProfile) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// User represents an application user stored in the users table.
type User struct {
	UID           string         `db:"uid" json:"uid"`
	Email         string         `db:"email" json:"email"`
	DisplayName   string         `db:"display_name" json:"display_name"`
	PhotoURL      string         `db:"photo_url" json:"photo_url,omitempty"`
	IsMentor      bool           `db:"is_mentor" json:"is_mentor"`
	IsMentee      bool           `db:"is_mentee" json:"is_mentee"`
	MentorProfile *MentorProfile `db:"mentor_profile" json:"mentor_profile,omitempty"`
	MenteeProfile *MenteeProfile `db:"mentee_profile" json:"mentee_profile,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// CalUsername returns the mentor's cal.com username, if linked.
func (u *User) CalUsername() string {
	if u == nil || u.MentorProfile == nil {
		return ""
	}
	return u.MentorProfile.CalUsername
}

// ProfileUpdateForm carries user-editable profile fields.
type ProfileUpdateForm struct {
	DisplayName   string         `json:"display_name" validate:"omitempty,min=2,max=100"`
	PhotoURL      string         `json:"photo_url" validate:"omitempty,url"`
	MentorProfile *MentorProfile `json:"mentor_profile"`
	MenteeProfile *MenteeProfile `json:"mentee_profile"`
}

// LinkCalendarForm carries the cal.com username for a mentor's booking page.
type LinkCalendarForm struct {
	CalUsername string `json:"cal_username" validate:"required,min=3,max=100"`
}

func scanJSON(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}
