package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"` // admin, user
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry is one finished translation recorded for a user: the source
// text that was submitted and the text one target language produced for it.
type HistoryEntry struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"source_text"`
	Language       string    `json:"language"`
	TranslatedText string    `json:"translated_text"`
	CreatedAt      time.Time `json:"created_at"`
}
