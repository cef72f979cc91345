//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"skim/backend/internal/model"
	"skim/backend/internal/repository"
)

type NoteService interface {
	Add(ctx context.Context, userID, itemID int64, content string, selectedText *string) (model.Note, error)
	ListByItem(ctx context.Context, userID, itemID int64) ([]model.Note, error)
}

type noteService struct {
	notes repository.NoteRepository
	items repository.ItemRepository
}

func NewNoteService(notes repository.NoteRepository, items repository.ItemRepository) NoteService {
	return &noteService{notes: notes, items: items}
}

// Add attaches a note to one of the user's items. The item lookup doubles as
// the ownership check; a note can never point at another user's item.
func (s *noteService) Add(ctx context.Context, userID, itemID int64, content string, selectedText *string) (model.Note, error) {
	if strings.TrimSpace(content) == "" {
		return model.Note{}, ErrInvalid
	}

	if _, err := s.items.GetByID(ctx, itemID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Note{}, ErrNotFound
		}
		return model.Note{}, fmt.Errorf("check item: %w", err)
	}

	if selectedText != nil && strings.TrimSpace(*selectedText) == "" {
		selectedText = nil
	}

	note, err := s.notes.Create(ctx, model.Note{
		ItemID:       itemID,
		UserID:       userID,
		Content:      content,
		SelectedText: selectedText,
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *noteService) ListByItem(ctx context.Context, userID, itemID int64) ([]model.Note, error) {
	if _, err := s.items.GetByID(ctx, itemID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("check item: %w", err)
	}

	notes, err := s.notes.ListByItem(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
