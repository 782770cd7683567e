package model

import "time"

// Media is a single photo or video in the archive. The binary lives on the
// CDN; only the URL and technical metadata are stored here.
type Media struct {
	ID                 string
	Title              string
	Description        string
	FileURL            string
	Kind               MediaKind
	Format             string // File extension: jpg, png, mp4, ...
	SizeKB             int
	Width              int
	Height             int
	PhotographerCredit string
	CapturedOn         *time.Time
	Featured           bool
	CreatedAt          time.Time
}

// SizeMB returns the file size in megabytes, rounded to two decimals.
// Returns 0 when the size is unknown.
func (m *Media) SizeMB() float64 {
	if m.SizeKB <= 0 {
		return 0
	}
	return float64(m.SizeKB*100/1024) / 100
}
