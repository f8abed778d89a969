package model

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusScheduled PostStatus = "SCHEDULED"
)

type BlogCategory struct {
	Slug string `gorm:"type:varchar(64);primaryKey" json:"slug"`
	Name string `gorm:"type:varchar(128);not null" json:"name"`
}

type BlogTag struct {
	Slug string `gorm:"type:varchar(64);primaryKey" json:"slug"`
	Name string `gorm:"type:varchar(128);not null" json:"name"`
}

// ブログ記事
// 一覧に出せるのはPUBLISHEDかつ公開日時が現在以前のものだけ。
type BlogPost struct {
	ID             string       `gorm:"type:varchar(64);primaryKey" json:"id"`
	Slug           string       `gorm:"type:varchar(160);not null;uniqueIndex" json:"slug"`
	Title          string       `gorm:"type:varchar(255);not null" json:"title"`
	Excerpt        string       `gorm:"type:text" json:"excerpt"`
	Content        string       `gorm:"type:text" json:"content"`
	CategorySlug   string       `gorm:"type:varchar(64);not null;index" json:"-"`
	Category       BlogCategory `gorm:"foreignKey:CategorySlug;references:Slug" json:"category"`
	Tags           []BlogTag    `gorm:"many2many:blog_post_tags;" json:"tags"`
	Author         string       `gorm:"type:varchar(128)" json:"author"`
	CoverImage     string       `gorm:"type:varchar(255)" json:"coverImage"`
	ReadingMinutes int          `gorm:"not null;default:0" json:"readingMinutes"`
	Status         PostStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	PublishedAt    time.Time    `gorm:"not null;index" json:"publishedAt"`
	CreatedAt      time.Time    `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt      time.Time    `gorm:"not null;autoUpdateTime" json:"-"`
}

func (p BlogPost) IsPublic(now time.Time) bool {
	return p.Status == PostStatusPublished && !p.PublishedAt.After(now)
}

func (p BlogPost) HasTag(slug string) bool {
	for _, t := range p.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// 一覧表示用（本文なし）
type BlogPostCard struct {
	ID             string       `json:"id"`
	Slug           string       `json:"slug"`
	Title          string       `json:"title"`
	Excerpt        string       `json:"excerpt"`
	Category       BlogCategory `json:"category"`
	Tags           []BlogTag    `json:"tags"`
	Author         string       `json:"author"`
	CoverImage     string       `json:"coverImage"`
	ReadingMinutes int          `json:"readingMinutes"`
	PublishedAt    time.Time    `json:"publishedAt"`
}

func (p BlogPost) Card() BlogPostCard {
	tags := p.Tags
	if tags == nil {
		tags = []BlogTag{}
	}
	return BlogPostCard{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Excerpt:        p.Excerpt,
		Category:       p.Category,
		Tags:           tags,
		Author:         p.Author,
		CoverImage:     p.CoverImage,
		ReadingMinutes: p.ReadingMinutes,
		PublishedAt:    p.PublishedAt,
	}
}
