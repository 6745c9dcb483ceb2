package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/models"
	"concierge/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandlerRejectsMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat", ChatHandler(nil))

	w := performRequest(r, http.MethodPost, "/api/chat", `{"user_id":"u1","text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user_id and text are required")

	w = performRequest(r, http.MethodPost, "/api/chat", `{"text":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandlerRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat", ChatHandler(nil))

	w := performRequest(r, http.MethodPost, "/api/chat", `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid input")
}

func TestStartChatHandlerRequiresUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat/start", StartChatHandler(nil))

	w := performRequest(r, http.MethodPost, "/api/chat/start", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "user_id is required")
}

func TestPickOptionHandlerRequiresOptionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat/pick-option", PickOptionHandler(nil))

	w := performRequest(r, http.MethodPost, "/api/chat/pick-option", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "option_id")
}

func TestGetSessionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewStore()
	r := gin.New()
	r.GET("/api/chat/session/:userID", GetSessionHandler(store))

	w := performRequest(r, http.MethodGet, "/api/chat/session/ghost", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	sess, release := store.Acquire("u1")
	sess.Action = models.ActionAwaitingOptionChoice
	release()

	w = performRequest(r, http.MethodGet, "/api/chat/session/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.ActionAwaitingOptionChoice))
}
