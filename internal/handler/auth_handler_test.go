package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"skim/backend/internal/handler"
	"skim/backend/internal/model"
	"skim/backend/internal/service"
	"skim/backend/internal/service/mock"
)

func TestAuthHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock.NewMockAuthService(ctrl)
	h := handler.NewAuthHandler(mockAuth)
	e := newTestEcho()

	mockAuth.EXPECT().Register(gomock.Any(), "alice", "alice@example.com", "long enough pass").Return(model.User{
		ID:        1,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Now(),
	}, nil)

	req := newJSONRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "long enough pass",
	})
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Register(c))

	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	assertJSONResponse(t, rec, http.StatusCreated, &resp)
	require.Equal(t, int64(1), resp.ID)
	require.Equal(t, "alice", resp.Username)
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock.NewMockAuthService(ctrl)
	h := handler.NewAuthHandler(mockAuth)
	e := newTestEcho()

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(model.User{}, service.ErrConflict)

	req := newJSONRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "long enough pass",
	})
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Register(c))

	var resp struct {
		Error string `json:"error"`
	}
	assertJSONResponse(t, rec, http.StatusConflict, &resp)
	require.NotEmpty(t, resp.Error)
}

func TestAuthHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock.NewMockAuthService(ctrl)
	h := handler.NewAuthHandler(mockAuth)
	e := newTestEcho()

	mockAuth.EXPECT().Login(gomock.Any(), "alice", "pass").Return("a.jwt.token", model.User{ID: 1, Username: "alice"}, nil)

	req := newJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "pass",
	})
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Login(c))

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, "a.jwt.token", resp.Token)
	require.Equal(t, int64(1), resp.User.ID)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mock.NewMockAuthService(ctrl)
	h := handler.NewAuthHandler(mockAuth)
	e := newTestEcho()

	mockAuth.EXPECT().Login(gomock.Any(), "alice", "wrong").Return("", model.User{}, service.ErrUnauthorized)

	req := newJSONRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Register_BadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := handler.NewAuthHandler(mock.NewMockAuthService(ctrl))
	e := newTestEcho()

	req := newJSONRequestRaw(http.MethodPost, "/api/auth/register", "{not json")
	c, rec := newTestContext(e, req)

	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
