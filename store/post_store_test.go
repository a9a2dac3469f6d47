package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterblog/models"
)

func newTestStore(t *testing.T) *PostStore {
	t.Helper()
	s, err := NewPostStore("", nil)
	require.NoError(t, err)
	return s
}

func TestNewPostStoreSeedsDemoPosts(t *testing.T) {
	s := newTestStore(t)

	posts, err := s.List(ListOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, 1, posts[0].ID)
	assert.Equal(t, "First post", posts[0].Title)
	assert.Equal(t, 2, posts[1].ID)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Create("Alpha", "content", "", "")
	require.NoError(t, err)
	second, err := s.Create("Beta", "content", "someone", "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, 3, first.ID)
	assert.Equal(t, 4, second.ID)
	assert.Equal(t, "someone", second.Author)
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		title   string
		content string
		date    string
		wantMsg string
	}{
		{"missing title", "", "content", "", "Missing fields: title"},
		{"missing content", "title", "", "", "Missing fields: content"},
		{"missing both", "", "", "", "Missing fields: title, content"},
		{"bad date", "title", "content", "01-02-2024", "Invalid date format. Use YYYY-MM-DD."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.title, tt.content, "", tt.date)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestIDsAreNeverReused(t *testing.T) {
	s := newTestStore(t)

	post, err := s.Create("Gamma", "content", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Delete(post.ID))

	next, err := s.Create("Delta", "content", "", "")
	require.NoError(t, err)
	assert.Greater(t, next.ID, post.ID)
}

func TestGet(t *testing.T) {
	s := newTestStore(t)

	post, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "First post", post.Title)

	_, err = s.Get(999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdateIsPartial(t *testing.T) {
	s := newTestStore(t)

	title := "Renamed"
	post, err := s.Update(1, UpdateFields{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", post.Title)
	assert.Equal(t, "This is the first post.", post.Content)
	assert.Equal(t, "Author One", post.Author)

	badDate := "not-a-date"
	_, err = s.Update(1, UpdateFields{Date: &badDate})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = s.Update(999, UpdateFields{Title: &title})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Delete(1))
	_, err := s.Get(1)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, s.Delete(1), ErrPostNotFound)
}

func TestListSorting(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create("a lowercase title", "zzz", "Zed", "2022-12-31")
	require.NoError(t, err)

	t.Run("title desc", func(t *testing.T) {
		posts, err := s.List(ListOptions{SortField: "title", Direction: "desc"})
		require.NoError(t, err)
		titles := titlesOf(posts)
		assert.Equal(t, []string{"a lowercase title", "Second post", "First post"}, titles)
	})

	t.Run("direction defaults to asc", func(t *testing.T) {
		posts, err := s.List(ListOptions{SortField: "date"})
		require.NoError(t, err)
		assert.Equal(t, "2022-12-31", posts[0].Date)
		assert.Equal(t, "2023-02-01", posts[2].Date)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := s.List(ListOptions{SortField: "id"})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := s.List(ListOptions{SortField: "title", Direction: "sideways"})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("no sort keeps insertion order", func(t *testing.T) {
		posts, err := s.List(ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"First post", "Second post", "a lowercase title"}, titlesOf(posts))
	})
}

func TestListPagination(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"Third", "Fourth", "Fifth"} {
		_, err := s.Create(title, "content", "", "")
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		page    int
		perPage int
		want    int
	}{
		{"full list by default", 0, 0, 5},
		{"first page of two", 1, 2, 2},
		{"last partial page", 3, 2, 1},
		{"past the end", 4, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := s.List(ListOptions{Page: tt.page, PerPage: tt.perPage})
			require.NoError(t, err)
			assert.Len(t, posts, tt.want)
		})
	}

	t.Run("slicing is stable", func(t *testing.T) {
		page1, err := s.List(ListOptions{Page: 1, PerPage: 2})
		require.NoError(t, err)
		page2, err := s.List(ListOptions{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"First post", "Second post"}, titlesOf(page1))
		assert.Equal(t, []string{"Third", "Fourth"}, titlesOf(page2))
	})
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Create("Cooking tips", "How to sear FOO properly", "Chef", "2024-01-15")
	require.NoError(t, err)

	t.Run("case-insensitive title match", func(t *testing.T) {
		posts := s.Search(SearchQuery{Title: "COOKING"})
		require.Len(t, posts, 1)
		assert.Equal(t, "Cooking tips", posts[0].Title)
	})

	t.Run("or across fields", func(t *testing.T) {
		posts := s.Search(SearchQuery{Title: "cooking", Author: "Author One"})
		assert.Len(t, posts, 2)
	})

	t.Run("content substring", func(t *testing.T) {
		posts := s.Search(SearchQuery{Content: "foo"})
		require.Len(t, posts, 1)
		assert.Equal(t, "Cooking tips", posts[0].Title)
	})

	t.Run("date substring", func(t *testing.T) {
		posts := s.Search(SearchQuery{Date: "2024-01"})
		assert.Len(t, posts, 1)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		posts := s.Search(SearchQuery{})
		assert.Len(t, posts, 3)
	})

	t.Run("no match", func(t *testing.T) {
		posts := s.Search(SearchQuery{Title: "nonexistent"})
		assert.Empty(t, posts)
	})
}

func TestSnapshotPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")

	s, err := NewPostStore(path, nil)
	require.NoError(t, err)
	created, err := s.Create("Persisted", "content", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Delete(1))

	// Reopen from the snapshot: the surviving posts and the ID counter come back.
	reopened, err := NewPostStore(path, nil)
	require.NoError(t, err)

	_, err = reopened.Get(1)
	assert.ErrorIs(t, err, ErrPostNotFound)
	got, err := reopened.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Title)

	next, err := reopened.Create("After restart", "content", "", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, next.ID)
}

func titlesOf(posts []models.Post) []string {
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	return titles
}
