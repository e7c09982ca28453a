package models

type UserRole string
type JobStatus string
type Gender string
type AuthProvider string
type ContentKind string

const (
	UserRoleAgent  UserRole = "Agent"
	UserRoleClient UserRole = "Client"

	JobStatusDraft    JobStatus = "draft"
	JobStatusActive   JobStatus = "active"
	JobStatusPaused   JobStatus = "paused"
	JobStatusClosed   JobStatus = "closed"
	JobStatusArchived JobStatus = "archived"

	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"

	AuthProviderPassword  AuthProvider = "password"
	AuthProviderApple     AuthProvider = "apple"
	AuthProviderGoogle    AuthProvider = "google"
	AuthProviderFacebook  AuthProvider = "facebook"
	AuthProviderMicrosoft AuthProvider = "microsoft"

	ContentPrivacyPolicy   ContentKind = "privacy_policy"
	ContentAboutUs         ContentKind = "about_us"
	ContentTermsConditions ContentKind = "terms_conditions"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAgent || r == UserRoleClient
}

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed, JobStatusArchived:
		return true
	}
	return false
}

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
