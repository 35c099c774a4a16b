// Package botapi exposes the running bot over HTTP.
package botapi

// ChatRequest is a chat line to forward to the game server.
type ChatRequest struct {
	Message string `json:"message" binding:"required,max=256"`
}

// LimitQuery bounds list endpoints.
type LimitQuery struct {
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100"`
}
