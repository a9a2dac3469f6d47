package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"masterblog/store"
	"masterblog/utils"
)

const listCachePrefix = "cache:posts:list:"

// PostController exposes the CRUD, search, sort, and pagination operations
// over the post store.
type PostController struct {
	posts *store.PostStore
	cache *utils.Cache
}

// NewPostController creates a PostController.
func NewPostController(posts *store.PostStore, cache *utils.Cache) *PostController {
	return &PostController{posts: posts, cache: cache}
}

// ListPosts returns posts, optionally sorted by title/content/author/date and
// paginated by page/per_page. Without per_page the full list is returned.
func (p *PostController) ListPosts(ctx *gin.Context) {
	sortField := strings.TrimSpace(ctx.Query("sort"))
	direction := strings.TrimSpace(ctx.Query("direction"))
	page, perPage := parsePagination(ctx.Query("page"), ctx.Query("per_page"))

	// Unsorted pages are the hot path (the homepage); cache those only to
	// avoid a cache key per sort permutation.
	cacheKey := ""
	if sortField == "" {
		cacheKey = fmt.Sprintf("%spage=%d:size=%d", listCachePrefix, page, perPage)
		if b, ok := p.cache.GetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	posts, err := p.posts.List(store.ListOptions{
		SortField: sortField,
		Direction: direction,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if cacheKey != "" {
		p.cache.SetJSON(cacheKey, posts, time.Hour)
	}
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	post, err := p.posts.Get(id)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}
	ctx.JSON(http.StatusOK, post)
}

// CreatePost adds a new post. Title and content are required.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		Author  string `json:"author"`
		Date    string `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	content := utils.Sanitize(req.Content)
	author := utils.Sanitize(strings.TrimSpace(req.Author))

	post, err := p.posts.Create(title, content, author, strings.TrimSpace(req.Date))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, err.Error())
		return
	}

	p.cache.InvalidateByPrefix(listCachePrefix)
	ctx.JSON(http.StatusCreated, post)
}

// UpdatePost applies a partial update to an existing post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
		Author  *string `json:"author"`
		Date    *string `json:"date"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	fields := store.UpdateFields{
		Title:   sanitized(req.Title),
		Content: sanitized(req.Content),
		Author:  sanitized(req.Author),
		Date:    req.Date,
	}

	post, err := p.posts.Update(id, fields)
	if err != nil {
		if store.IsValidation(err) {
			utils.Error(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	p.cache.InvalidateByPrefix(listCachePrefix)
	ctx.JSON(http.StatusOK, post)
}

// DeletePost removes a post by ID.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	if err := p.posts.Delete(id); err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	p.cache.InvalidateByPrefix(listCachePrefix)
	utils.Message(ctx, http.StatusOK, fmt.Sprintf("Post with id %d has been deleted successfully.", id))
}

// SearchPosts filters posts by case-insensitive substring match; a post is
// included when it matches any provided field.
func (p *PostController) SearchPosts(ctx *gin.Context) {
	result := p.posts.Search(store.SearchQuery{
		Title:   ctx.Query("title"),
		Content: ctx.Query("content"),
		Author:  ctx.Query("author"),
		Date:    ctx.Query("date"),
	})
	ctx.JSON(http.StatusOK, result)
}

// parseID reads the :id path param; a non-numeric ID can never match a post,
// so it is reported as 404 rather than 400.
func parseID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return 0, false
	}
	return id, true
}

func parsePagination(pageStr, perPageStr string) (int, int) {
	page := 1
	perPage := 0 // full list
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(perPageStr); err == nil && s > 0 {
		if s > 100 {
			s = 100
		}
		perPage = s
	}
	return page, perPage
}

func sanitized(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.Sanitize(*s)
	return &clean
}
