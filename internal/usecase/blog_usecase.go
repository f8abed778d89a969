package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/content"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const (
	DefaultPostsPerPage = 12
	maxPostsPerPage     = 50
	relatedPostsLimit   = 3
)

type BlogUsecase struct {
	blog repo.BlogRepository
	now  func() time.Time
}

// DI
func NewBlogUsecase(blog repo.BlogRepository) *BlogUsecase {
	return &BlogUsecase{blog: blog, now: time.Now}
}

type ListPostsInput struct {
	Page     int
	PerPage  int
	Category string
	Tag      string
}

type PostDetailOutput struct {
	Post    model.BlogPost       `json:"post"`
	Related []model.BlogPostCard `json:"related"`
}

func (u *BlogUsecase) ListPosts(ctx context.Context, in ListPostsInput) (content.Page[model.BlogPostCard], error) {
	if in.PerPage > maxPostsPerPage {
		return content.Page[model.BlogPostCard]{}, NewHTTPError(http.StatusBadRequest, "invalid perPage")
	}

	posts, err := u.blog.ListPosts(ctx)
	if err != nil {
		return content.Page[model.BlogPostCard]{}, internalError(ctx, "list posts", err)
	}

	page, err := content.PaginatePosts(posts, content.PostQuery{
		Page:     in.Page,
		PerPage:  in.PerPage,
		Category: in.Category,
		Tag:      in.Tag,
		Now:      u.now(),
	})
	switch {
	case errors.Is(err, content.ErrInvalidPerPage):
		return content.Page[model.BlogPostCard]{}, NewHTTPError(http.StatusBadRequest, "invalid perPage")
	case errors.Is(err, content.ErrInvalidFilter):
		return content.Page[model.BlogPostCard]{}, NewHTTPError(http.StatusBadRequest, "invalid filter")
	case err != nil:
		return content.Page[model.BlogPostCard]{}, internalError(ctx, "paginate posts", err)
	}
	return page, nil
}

// 下書き・予約投稿は存在しない扱い（404）
func (u *BlogUsecase) GetPost(ctx context.Context, slug string) (PostDetailOutput, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return PostDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	now := u.now()
	post, err := u.blog.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return PostDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PostDetailOutput{}, internalError(ctx, "get post", err)
	}
	if !post.IsPublic(now) {
		return PostDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if post.Tags == nil {
		post.Tags = []model.BlogTag{}
	}

	posts, err := u.blog.ListPosts(ctx)
	if err != nil {
		return PostDetailOutput{}, internalError(ctx, "list posts", err)
	}

	return PostDetailOutput{
		Post:    post,
		Related: content.RelatedPosts(posts, post, relatedPostsLimit, now),
	}, nil
}

func (u *BlogUsecase) ListCategories(ctx context.Context) ([]content.CategoryCount, error) {
	cats, err := u.blog.ListCategories(ctx)
	if err != nil {
		return nil, internalError(ctx, "list categories", err)
	}
	posts, err := u.blog.ListPosts(ctx)
	if err != nil {
		return nil, internalError(ctx, "list posts", err)
	}
	return content.CategoryCounts(cats, posts, u.now()), nil
}
