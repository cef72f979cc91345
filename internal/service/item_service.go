//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skim/backend/internal/model"
	"skim/backend/internal/repository"
)

// PageSize is the fixed item page length.
const PageSize = 20

// ItemPage is one page of the user's reading list.
type ItemPage struct {
	Items      []model.Item
	Total      int
	Page       int
	TotalPages int
}

type ItemService interface {
	List(ctx context.Context, userID int64, status model.ItemStatus, page int) (ItemPage, error)
	Get(ctx context.Context, id, userID int64) (model.Item, error)
	UpdateStatus(ctx context.Context, id, userID int64, status model.ItemStatus) (model.Item, error)
	Next(ctx context.Context, currentID, userID int64, status model.ItemStatus) (*model.Item, error)
}

type itemService struct {
	items repository.ItemRepository
}

func NewItemService(items repository.ItemRepository) ItemService {
	return &itemService{items: items}
}

func (s *itemService) List(ctx context.Context, userID int64, status model.ItemStatus, page int) (ItemPage, error) {
	if !status.Valid() {
		return ItemPage{}, ErrInvalid
	}
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * PageSize
	items, total, err := s.items.ListByUser(ctx, userID, status, offset, PageSize)
	if err != nil {
		return ItemPage{}, fmt.Errorf("list items: %w", err)
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return ItemPage{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

func (s *itemService) Get(ctx context.Context, id, userID int64) (model.Item, error) {
	item, err := s.items.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *itemService) UpdateStatus(ctx context.Context, id, userID int64, status model.ItemStatus) (model.Item, error) {
	if !status.Valid() {
		return model.Item{}, ErrInvalid
	}
	if err := s.items.UpdateStatus(ctx, id, userID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("update item status: %w", err)
	}
	return s.Get(ctx, id, userID)
}

// Next returns the item right after currentID in display order, restricted
// to the given status. Returns nil when the current item is the last one.
func (s *itemService) Next(ctx context.Context, currentID, userID int64, status model.ItemStatus) (*model.Item, error) {
	if !status.Valid() {
		return nil, ErrInvalid
	}

	current, err := s.items.GetByID(ctx, currentID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get current item: %w", err)
	}

	next, err := s.items.NextAfter(ctx, userID, current, status)
	if err != nil {
		return nil, fmt.Errorf("find next item: %w", err)
	}
	return next, nil
}
