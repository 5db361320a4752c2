package dto

type NotificationReadInput struct {
	Read *bool `json:"read" binding:"required"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
