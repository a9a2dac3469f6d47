package models

// Post represents a single blog entry.
//
// IDs are assigned by the store, strictly increasing and never reused,
// even after deletes or restarts. Author and Date are optional; Date,
// when set, is a YYYY-MM-DD string.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
}
