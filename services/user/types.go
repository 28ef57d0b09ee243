package user

import "time"

// Profile is the "users" record keyed by the identity provider UID.
type Profile struct {
	UID                   string    `json:"uid"`
	Email                 string    `json:"email"`
	DisplayName           string    `json:"displayName"`
	Phone                 string    `json:"phone"`
	Country               string    `json:"country"`
	City                  string    `json:"city"`
	Nationality           string    `json:"nationality"`
	ProfilePictureURL     string    `json:"profilePictureUrl"`
	ProfileSetupCompleted bool      `json:"profileSetupCompleted"`
	CreatedAt             time.Time `json:"createdAt"`
}

// Setup carries the onboarding form. Field tags feed the merge payload.
type Setup struct {
	Phone       string `json:"phone" structs:"phone"`
	Country     string `json:"country" structs:"country"`
	City        string `json:"city" structs:"city"`
	Nationality string `json:"nationality" structs:"nationality"`
}
