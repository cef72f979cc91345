package model

import "time"

type Feed struct {
	ID            int64
	UserID        int64
	Title         string
	URL           string
	SiteURL       *string
	Description   *string
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
