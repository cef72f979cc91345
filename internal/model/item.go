package model

import "time"

type ItemStatus string

const (
	StatusUnread   ItemStatus = "unread"
	StatusRead     ItemStatus = "read"
	StatusArchived ItemStatus = "archived"
)

// Valid reports whether s is one of the three known states.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusUnread, StatusRead, StatusArchived:
		return true
	}
	return false
}

type Item struct {
	ID          int64
	FeedID      int64
	GUID        string
	Title       string
	Link        string
	Description *string
	Author      *string
	PublishedAt *time.Time
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
