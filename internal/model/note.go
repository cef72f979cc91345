package model

import "time"

type Note struct {
	ID           int64
	ItemID       int64
	UserID       int64
	Content      string
	SelectedText *string
	CreatedAt    time.Time
}
