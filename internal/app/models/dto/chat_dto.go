package dto

// ChatMessage is one role-tagged entry in a conversation
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant system" example:"user"`
	Content string `json:"content" binding:"required" example:"Lam sao de doi mat khau?"`
}

// ChatRequest carries the ordered conversation so far
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// ChatResponse carries the single assistant reply
type ChatResponse struct {
	Reply string `json:"reply"`
}
