package model

import "time"

// Cosplayer is the profile of a cosplayer registered in the archive.
type Cosplayer struct {
	ID        string
	Name      string // Real name.
	StageName string // Artistic name, optional.
	Slug      string
	Bio       string
	AvatarURL string
	Instagram string // Username without the @.
	Facebook  string
	TikTok    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the stage name when set, otherwise the real name.
func (c *Cosplayer) DisplayName() string {
	if c.StageName != "" {
		return c.StageName
	}
	return c.Name
}
