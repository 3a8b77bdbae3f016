package internal

import "time"

// Generation is one completed (or partially completed) scene generation as
// persisted in the history store.
type Generation struct {
	ID        string    `json:"id"`
	SceneJSON string    `json:"scene"`
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	Backend   string    `json:"backend"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// Language codes of the generated paragraph and of its translation.
const (
	PrimaryLang   = "id"
	SecondaryLang = "en"
)
