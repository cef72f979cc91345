package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"skim/backend/internal/handler"
	"skim/backend/internal/model"
	"skim/backend/internal/service"
	"skim/backend/internal/service/mock"
)

func TestItemHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().List(gomock.Any(), testUserID, model.StatusUnread, 2).Return(service.ItemPage{
		Items:      []model.Item{{ID: 1, FeedID: 5, Title: "One", Link: "https://example.com/1", Status: model.StatusUnread}},
		Total:      21,
		Page:       2,
		TotalPages: 2,
	}, nil)

	req := newJSONRequest(http.MethodGet, "/api/items?page=2", nil)
	c, rec := newAuthedContext(e, req)

	require.NoError(t, h.List(c))

	var resp struct {
		Items []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"items"`
		Total      int `json:"total"`
		Page       int `json:"page"`
		TotalPages int `json:"totalPages"`
	}
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "unread", resp.Items[0].Status)
	require.Equal(t, 21, resp.Total)
	require.Equal(t, 2, resp.Page)
	require.Equal(t, 2, resp.TotalPages)
}

func TestItemHandler_List_StatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().List(gomock.Any(), testUserID, model.StatusArchived, 1).Return(service.ItemPage{Page: 1, TotalPages: 1}, nil)

	req := newJSONRequest(http.MethodGet, "/api/items?status=archived", nil)
	c, rec := newAuthedContext(e, req)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestItemHandler_List_BadPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := handler.NewItemHandler(mock.NewMockItemService(ctrl))
	e := newTestEcho()

	req := newJSONRequest(http.MethodGet, "/api/items?page=zero", nil)
	c, rec := newAuthedContext(e, req)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().UpdateStatus(gomock.Any(), int64(9), testUserID, model.StatusRead).Return(model.Item{
		ID:     9,
		Status: model.StatusRead,
	}, nil)

	req := newJSONRequest(http.MethodPatch, "/api/items/9/status", map[string]string{"status": "read"})
	c, rec := newAuthedContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.UpdateStatus(c))

	var resp struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, "read", resp.Status)
}

func TestItemHandler_UpdateStatus_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().UpdateStatus(gomock.Any(), int64(9), testUserID, model.ItemStatus("bogus")).Return(model.Item{}, service.ErrInvalid)

	req := newJSONRequest(http.MethodPatch, "/api/items/9/status", map[string]string{"status": "bogus"})
	c, rec := newAuthedContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemHandler_UpdateStatus_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().UpdateStatus(gomock.Any(), int64(9), testUserID, model.StatusRead).Return(model.Item{}, service.ErrNotFound)

	req := newJSONRequest(http.MethodPatch, "/api/items/9/status", map[string]string{"status": "read"})
	c, rec := newAuthedContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemHandler_Next(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().Next(gomock.Any(), int64(9), testUserID, model.StatusUnread).Return(&model.Item{ID: 10, Title: "Next"}, nil)

	req := newJSONRequest(http.MethodGet, "/api/items/9/next", nil)
	c, rec := newAuthedContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.Next(c))

	var resp struct {
		ID int64 `json:"id"`
	}
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, int64(10), resp.ID)
}

func TestItemHandler_Next_LastItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockItems := mock.NewMockItemService(ctrl)
	h := handler.NewItemHandler(mockItems)
	e := newTestEcho()

	mockItems.EXPECT().Next(gomock.Any(), int64(9), testUserID, model.StatusUnread).Return(nil, nil)

	req := newJSONRequest(http.MethodGet, "/api/items/9/next", nil)
	c, rec := newAuthedContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.Next(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestItemHandler_Get_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := handler.NewItemHandler(mock.NewMockItemService(ctrl))
	e := newTestEcho()

	req := newJSONRequest(http.MethodGet, "/api/items/9", nil)
	c, rec := newTestContext(e, req)
	setPathParams(c, map[string]string{"id": "9"})

	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
