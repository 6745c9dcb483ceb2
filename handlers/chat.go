package handlers

import (
	"net/http"
	"strings"

	"concierge/models"
	"concierge/services/conversation"
	"concierge/services/session"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler processes one user message through the conversation engine.
func ChatHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("Invalid chat request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if req.UserID == "" || req.Text == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and text are required"})
			return
		}

		resp := engine.HandleMessage(c.Request.Context(), req.UserID, req.Text)
		c.JSON(http.StatusOK, resp)
	}
}

// StartChatHandler resets the user's session and runs the opening turn.
func StartChatHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		resp := engine.StartConversation(c.Request.Context(), req.UserID)
		c.JSON(http.StatusOK, resp)
	}
}

// NewSearchHandler drops the search context while keeping hotel context.
func NewSearchHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		resp := engine.NewSearch(c.Request.Context(), req.UserID)
		c.JSON(http.StatusOK, resp)
	}
}

// PickOptionHandler binds a displayed search option to the user's session,
// mirroring the inline "book option" button of the Telegram transport.
func PickOptionHandler(engine *conversation.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID   string `json:"user_id"`
			OptionID string `json:"option_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.OptionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and option_id are required"})
			return
		}

		resp := engine.PickOption(c.Request.Context(), req.UserID, req.OptionID)
		c.JSON(http.StatusOK, resp)
	}
}

// GetSessionHandler returns a snapshot of the user's session for clients that
// track conversational state.
func GetSessionHandler(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		snap := sessions.Peek(userID)
		if snap == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no session for user"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
