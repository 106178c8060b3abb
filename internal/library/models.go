package library

import "time"

// Paper is one library entry as served by the API.
type Paper struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Year      int       `json:"year"`
	DOI       string    `json:"doi"`
	Abstract  string    `json:"abstract"`
	Tags      []Tag     `json:"tags"`
	HasSource bool      `json:"has_source"`
	CreatedAt time.Time `json:"created_at"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Stats is the aggregate view used by purely-informational displays.
// A zero value is a legitimate "nothing known" answer.
type Stats struct {
	Papers     int `json:"papers"`
	Tags       int `json:"tags"`
	WithNotes  int `json:"with_notes"`
	WithSource int `json:"with_source"`
}

// PaperSubmission is the metadata half of a new-entry upload.
type PaperSubmission struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Year     int      `json:"year"`
	DOI      string   `json:"doi"`
	Abstract string   `json:"abstract"`
	TagIDs   []int    `json:"tag_ids"`
}
