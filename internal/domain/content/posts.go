package content

import (
	"errors"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"storefront/internal/domain/model"
)

// カテゴリ絞り込みなしを表す値
const CategoryAll = "all"

var ErrInvalidFilter = errors.New("invalid filter")

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ブログ一覧の条件
type PostQuery struct {
	Page     int
	PerPage  int
	Category string
	Tag      string
	Now      time.Time
}

// PaginatePosts は公開済み記事を絞り込み、新しい順に並べてページングする。
func PaginatePosts(posts []model.BlogPost, q PostQuery) (Page[model.BlogPostCard], error) {
	category := strings.TrimSpace(q.Category)
	if category == CategoryAll {
		category = ""
	}
	tag := strings.TrimSpace(q.Tag)

	if category != "" && !slugPattern.MatchString(category) {
		return Page[model.BlogPostCard]{}, ErrInvalidFilter
	}
	if tag != "" && !slugPattern.MatchString(tag) {
		return Page[model.BlogPostCard]{}, ErrInvalidFilter
	}

	filtered := make([]model.BlogPost, 0, len(posts))
	for _, p := range posts {
		if !p.IsPublic(q.Now) {
			continue
		}
		if category != "" && p.CategorySlug != category {
			continue
		}
		if tag != "" && !p.HasTag(tag) {
			continue
		}
		filtered = append(filtered, p)
	}
	sortNewestFirst(filtered)

	cards := make([]model.BlogPostCard, 0, len(filtered))
	for _, p := range filtered {
		cards = append(cards, p.Card())
	}

	return Paginate(cards, q.Page, q.PerPage)
}

// 同じカテゴリを優先し、次に共通タグ数の多いもの。同点は新しい順。
func RelatedPosts(posts []model.BlogPost, post model.BlogPost, limit int, now time.Time) []model.BlogPostCard {
	if limit < 1 {
		return []model.BlogPostCard{}
	}

	type scored struct {
		post  model.BlogPost
		score int
	}

	candidates := make([]scored, 0)
	for _, p := range posts {
		if p.ID == post.ID || p.Slug == post.Slug || !p.IsPublic(now) {
			continue
		}
		score := 0
		if p.CategorySlug == post.CategorySlug {
			score += 10
		}
		for _, t := range post.Tags {
			if p.HasTag(t.Slug) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		candidates = append(candidates, scored{post: p, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].post.PublishedAt.After(candidates[j].post.PublishedAt)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]model.BlogPostCard, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.post.Card())
	}
	return out
}

type CategoryCount struct {
	model.BlogCategory
	Count int `json:"count"`
}

// 公開済み記事の件数をカテゴリごとに数える（件数0のカテゴリも返す）。
func CategoryCounts(categories []model.BlogCategory, posts []model.BlogPost, now time.Time) []CategoryCount {
	counts := make(map[string]int, len(categories))
	for _, p := range posts {
		if p.IsPublic(now) {
			counts[p.CategorySlug]++
		}
	}

	out := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryCount{BlogCategory: c, Count: counts[c.Slug]})
	}
	return out
}

func sortNewestFirst(posts []model.BlogPost) {
	slices.SortStableFunc(posts, func(a, b model.BlogPost) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}
