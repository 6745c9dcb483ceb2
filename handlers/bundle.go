package handlers

import (
	"concierge/services/conversation"
	"concierge/services/session"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all your endpoint handlers into one struct.
type HandlerBundle struct {
	Engine   *conversation.Engine
	Sessions *session.Store

	// Chat endpoints
	ChatHandler       gin.HandlerFunc
	StartChatHandler  gin.HandlerFunc
	NewSearchHandler  gin.HandlerFunc
	PickOptionHandler gin.HandlerFunc
	GetSessionHandler gin.HandlerFunc
}

// NewHandlerBundle wires the chat handlers around one conversation engine.
func NewHandlerBundle(engine *conversation.Engine, sessions *session.Store) *HandlerBundle {
	return &HandlerBundle{
		Engine:            engine,
		Sessions:          sessions,
		ChatHandler:       ChatHandler(engine),
		StartChatHandler:  StartChatHandler(engine),
		NewSearchHandler:  NewSearchHandler(engine),
		PickOptionHandler: PickOptionHandler(engine),
		GetSessionHandler: GetSessionHandler(sessions),
	}
}
