package chat

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}
