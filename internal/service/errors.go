package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalid        = errors.New("invalid")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrFeedParse      = errors.New("feed parse failed")
	ErrEmptyFeed      = errors.New("feed has no entries")
	ErrNotExtractable = errors.New("page has no extractable article")
)
