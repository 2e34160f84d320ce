package models

// User is the authenticated editor user handed over by the identity provider.
type User struct {
	ID        string `json:"id"         toml:"id"         validate:"required"`
	Name      string `json:"name"       toml:"name"       validate:"required"`
	AvatarURL string `json:"avatar_url" toml:"avatar_url" validate:"omitempty,url"`
}
