package models

import "time"

type Document struct {
	ID       int64  `json:"id"`
	OwnerID  int    `json:"ownerId"`
	Title    string `json:"title"`
	Category string `json:"category"` // policy | report | guide | other

	FileName    string `json:"fileName"`
	FileURL     string `json:"fileUrl"`
	ObjectKey   string `json:"-"` // ключ в объектном хранилище
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`

	IsPublic   bool     `json:"isPublic"`
	SharedWith []int64  `json:"sharedWith"` // id пользователей, integer[]
	Tags       []string `json:"tags"`       // text[]

	Downloads int `json:"downloads"`

	OwnerName string `json:"ownerName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type DocumentFilter struct {
	Category string
	Search   string
	// ViewerID/ViewerRole задают правило видимости: intern видит
	// публичные + расшаренные на него + свои.
	ViewerID   int
	ViewerRole string
	Limit      int
	Offset     int
}

type ShareDocumentRequest struct {
	UserIDs []int64 `json:"userIds"`
	All     bool    `json:"all"`
}
