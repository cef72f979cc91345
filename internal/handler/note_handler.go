package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/model"
	"skim/backend/internal/service"
)

type NoteHandler struct {
	notes service.NoteService
}

type createNoteRequest struct {
	Content      string  `json:"content"`
	SelectedText *string `json:"selectedText"`
}

type noteResponse struct {
	ID           int64   `json:"id"`
	ItemID       int64   `json:"feedItemId"`
	Content      string  `json:"content"`
	SelectedText *string `json:"selectedText,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func NewNoteHandler(notes service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

func (h *NoteHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/items/:id/notes", h.Create)
	g.GET("/items/:id/notes", h.List)
}

func (h *NoteHandler) Create(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	note, err := h.notes.Add(c.Request().Context(), auth.UserID, itemID, req.Content, req.SelectedText)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

func (h *NoteHandler) List(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	notes, err := h.notes.ListByItem(c.Request().Context(), auth.UserID, itemID)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, toNoteResponse(note))
	}
	return c.JSON(http.StatusOK, response)
}

func toNoteResponse(note model.Note) noteResponse {
	return noteResponse{
		ID:           note.ID,
		ItemID:       note.ItemID,
		Content:      note.Content,
		SelectedText: note.SelectedText,
		CreatedAt:    note.CreatedAt.UTC().Format(time.RFC3339),
	}
}
