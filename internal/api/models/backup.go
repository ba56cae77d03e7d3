package models

// BackupSnapshot is the API representation of a cloud backup.
type BackupSnapshot struct {
	ID        string    `json:"id"`
	ItemCount int       `json:"itemCount"`
	CreatedAt Timestamp `json:"createdAt"`

	// Items is populated on restore responses only.
	Items []Item `json:"items,omitempty"`
}

// DraftRequest is the request body for AI draft enrichment of free text.
type DraftRequest struct {
	Text string `json:"text"`
}
