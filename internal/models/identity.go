package models

import "time"

// Identity is a persisted record of a Google account that signed in at least
// once. ProviderID is the subject issued by Google and acts as the unique key;
// the record is created on first sign-in and never updated afterwards.
type Identity struct {
	ProviderID  string    `json:"provider_id" badgerhold:"key"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
