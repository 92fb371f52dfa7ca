package models

import "time"

type Message struct {
	ID          int64  `json:"id"`
	SenderID    int    `json:"senderId"`
	RecipientID int    `json:"recipientId"`
	// детерминированный ключ диалога: "minID:maxID"
	ConversationKey string    `json:"-"`
	Content         string    `json:"content"`
	Read            bool      `json:"read"`
	SenderName      string    `json:"senderName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type SendMessageRequest struct {
	RecipientID int    `json:"recipientId" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// ConversationSummary — строка списка диалогов: собеседник, последнее сообщение, непрочитанные.
type ConversationSummary struct {
	PartnerID     int       `json:"partnerId"`
	PartnerName   string    `json:"partnerName"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}
