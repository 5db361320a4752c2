package dto

type GenerateInput struct {
	Prompt string `json:"prompt" binding:"required"`
	ChatID string `json:"chat_id"`
	Format string `json:"format" binding:"omitempty,oneof=text html"`
}

type SessionInput struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Archived *bool   `json:"archived"`
}

type MessageInput struct {
	Prompt string `json:"prompt" binding:"required"`
	Format string `json:"format" binding:"omitempty,oneof=text html"`
}
