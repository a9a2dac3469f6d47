package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"masterblog/models"
)

// ErrPostNotFound is returned when no post matches the requested ID.
var ErrPostNotFound = errors.New("post not found")

// ValidationError reports a rejected input; it maps to HTTP 400 at the boundary.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const dateLayout = "2006-01-02"

var sortableFields = map[string]bool{
	"title":   true,
	"content": true,
	"author":  true,
	"date":    true,
}

// ListOptions controls sorting and pagination of List.
type ListOptions struct {
	SortField string // empty keeps insertion order
	Direction string // "asc" (default when empty) or "desc"
	Page      int    // 1-based; values < 1 are treated as 1
	PerPage   int    // 0 returns the full list
}

// SearchQuery filters posts; a post matches when it matches at least one
// provided field. Title/Content/Author match case-insensitive substrings,
// Date matches a plain substring of the YYYY-MM-DD value.
type SearchQuery struct {
	Title   string
	Content string
	Author  string
	Date    string
}

// UpdateFields carries a partial update; nil fields are left untouched.
type UpdateFields struct {
	Title   *string
	Content *string
	Author  *string
	Date    *string
}

// PostStore owns the post list. All access goes through its methods under a
// single coarse lock. When a snapshot path is configured the list and the ID
// counter are persisted after every mutation, so IDs stay unique across
// restarts as well.
type PostStore struct {
	mu     sync.Mutex
	posts  []models.Post
	nextID int

	path string
	log  *zap.SugaredLogger
}

type snapshot struct {
	NextID int           `json:"next_id"`
	Posts  []models.Post `json:"posts"`
}

// NewPostStore creates a store, loading the snapshot at path when it exists.
// An empty path keeps the store memory-only. A store that starts with no
// posts is seeded with two demo entries.
func NewPostStore(path string, log *zap.SugaredLogger) (*PostStore, error) {
	s := &PostStore{nextID: 1, path: path, log: log}

	if path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	if len(s.posts) == 0 && s.nextID == 1 {
		s.seed()
	}
	return s, nil
}

func (s *PostStore) seed() {
	s.posts = []models.Post{
		{ID: 1, Title: "First post", Content: "This is the first post.", Author: "Author One", Date: "2023-01-01"},
		{ID: 2, Title: "Second post", Content: "This is the second post.", Author: "Author Two", Date: "2023-02-01"},
	}
	s.nextID = 3
	s.persistLocked()
}

func (s *PostStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read post snapshot: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode post snapshot %s: %w", s.path, err)
	}
	s.posts = snap.Posts
	s.nextID = snap.NextID
	// Guard against hand-edited snapshots with a stale counter.
	for _, p := range s.posts {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	if s.nextID < 1 {
		s.nextID = 1
	}
	return nil
}

// persistLocked writes the snapshot best-effort; callers hold s.mu.
func (s *PostStore) persistLocked() {
	if s.path == "" {
		return
	}
	snap := snapshot{NextID: s.nextID, Posts: s.posts}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Errorf("encode post snapshot: %v", err)
		}
		return
	}
	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(tmp, b, 0o644); err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil && s.log != nil {
		s.log.Errorf("write post snapshot %s: %v", s.path, err)
	}
}

// List returns posts, optionally sorted and paginated.
func (s *PostStore) List(opts ListOptions) ([]models.Post, error) {
	// Direction is only meaningful together with a sort field, so it is
	// ignored (not rejected) when no sort is requested.
	direction := opts.Direction
	if direction == "" {
		direction = "asc"
	}
	if opts.SortField != "" {
		if !sortableFields[opts.SortField] {
			return nil, newValidationError("Invalid sort field. Must be 'title', 'content', 'author', or 'date'.")
		}
		if direction != "asc" && direction != "desc" {
			return nil, newValidationError("Invalid sort direction. Must be 'asc' or 'desc'.")
		}
	}

	s.mu.Lock()
	result := make([]models.Post, len(s.posts))
	copy(result, s.posts)
	s.mu.Unlock()

	if opts.SortField != "" {
		field := opts.SortField
		desc := direction == "desc"
		sort.SliceStable(result, func(i, j int) bool {
			a, b := fieldValue(result[i], field), fieldValue(result[j], field)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	return paginate(result, opts.Page, opts.PerPage), nil
}

func fieldValue(p models.Post, field string) string {
	switch field {
	case "title":
		return p.Title
	case "content":
		return p.Content
	case "author":
		return p.Author
	default:
		return p.Date
	}
}

func paginate(posts []models.Post, page, perPage int) []models.Post {
	if perPage <= 0 {
		if page <= 1 {
			return posts
		}
		return []models.Post{}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(posts) {
		return []models.Post{}
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

// Get returns the post with the given ID.
func (s *PostStore) Get(id int) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, ErrPostNotFound
}

// Create appends a new post and assigns the next sequential ID.
func (s *PostStore) Create(title, content, author, date string) (models.Post, error) {
	missing := []string{}
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return models.Post{}, newValidationError("Missing fields: %s", strings.Join(missing, ", "))
	}
	if err := validateDate(date); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := models.Post{
		ID:      s.nextID,
		Title:   title,
		Content: content,
		Author:  author,
		Date:    date,
	}
	s.nextID++
	s.posts = append(s.posts, post)
	s.persistLocked()
	return post, nil
}

// Update applies the provided fields to an existing post.
func (s *PostStore) Update(id int, fields UpdateFields) (models.Post, error) {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return models.Post{}, newValidationError("title cannot be empty")
	}
	if fields.Content != nil && strings.TrimSpace(*fields.Content) == "" {
		return models.Post{}, newValidationError("content cannot be empty")
	}
	if fields.Date != nil {
		if err := validateDate(*fields.Date); err != nil {
			return models.Post{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		if fields.Title != nil {
			s.posts[i].Title = *fields.Title
		}
		if fields.Content != nil {
			s.posts[i].Content = *fields.Content
		}
		if fields.Author != nil {
			s.posts[i].Author = *fields.Author
		}
		if fields.Date != nil {
			s.posts[i].Date = *fields.Date
		}
		s.persistLocked()
		return s.posts[i], nil
	}
	return models.Post{}, ErrPostNotFound
}

// Delete removes the post with the given ID. Its ID is never handed out again.
func (s *PostStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrPostNotFound
}

// Search returns posts matching at least one provided filter, or all posts
// when no filter is given.
func (s *PostStore) Search(q SearchQuery) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Title == "" && q.Content == "" && q.Author == "" && q.Date == "" {
		result := make([]models.Post, len(s.posts))
		copy(result, s.posts)
		return result
	}

	result := []models.Post{}
	for _, p := range s.posts {
		if matches(p, q) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p models.Post, q SearchQuery) bool {
	if q.Title != "" && containsFold(p.Title, q.Title) {
		return true
	}
	if q.Content != "" && containsFold(p.Content, q.Content) {
		return true
	}
	if q.Author != "" && containsFold(p.Author, q.Author) {
		return true
	}
	if q.Date != "" && strings.Contains(p.Date, q.Date) {
		return true
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return newValidationError("Invalid date format. Use YYYY-MM-DD.")
	}
	return nil
}
