package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed data/seed.yaml
var defaultSeed []byte

type discountDoc struct {
	Code        string `yaml:"code"`
	Kind        string `yaml:"kind"`
	Value       string `yaml:"value"`
	Description string `yaml:"description"`
}

type productDoc struct {
	ID          string `yaml:"id"`
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Condition   string `yaml:"condition"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
}

type postDoc struct {
	ID             string   `yaml:"id"`
	Slug           string   `yaml:"slug"`
	Title          string   `yaml:"title"`
	Excerpt        string   `yaml:"excerpt"`
	Content        string   `yaml:"content"`
	Category       string   `yaml:"category"`
	Tags           []string `yaml:"tags"`
	Author         string   `yaml:"author"`
	CoverImage     string   `yaml:"coverImage"`
	ReadingMinutes int      `yaml:"readingMinutes"`
	Status         string   `yaml:"status"`
	PublishedAt    string   `yaml:"publishedAt"`
}

type document struct {
	Discounts []discountDoc `yaml:"discounts"`
	Products  []productDoc  `yaml:"products"`
	Blog      struct {
		Categories []model.BlogCategory `yaml:"categories"`
		Tags       []model.BlogTag      `yaml:"tags"`
		Posts      []postDoc            `yaml:"posts"`
	} `yaml:"blog"`
}

// 初期データ（割引コード表・カタログ・ブログ）
type Data struct {
	Discounts  []model.DiscountRule
	Products   []model.Product
	Categories []model.BlogCategory
	Tags       []model.BlogTag
	Posts      []model.BlogPost
}

// 埋め込みのseed.yamlを読む
func Default() (Data, error) {
	return Parse(defaultSeed)
}

func Parse(raw []byte) (Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Data{}, fmt.Errorf("parse seed: %w", err)
	}

	var out Data

	for _, d := range doc.Discounts {
		v, err := decimal.NewFromString(d.Value)
		if err != nil {
			return Data{}, fmt.Errorf("discount %s: invalid value %q: %w", d.Code, d.Value, err)
		}
		kind := model.DiscountKind(d.Kind)
		if !kind.Valid() {
			return Data{}, fmt.Errorf("discount %s: invalid kind %q", d.Code, d.Kind)
		}
		out.Discounts = append(out.Discounts, model.DiscountRule{
			Code:        d.Code,
			Kind:        kind,
			Value:       v,
			Description: d.Description,
			IsActive:    true,
		})
	}

	for _, p := range doc.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return Data{}, fmt.Errorf("product %s: invalid price %q: %w", p.ID, p.Price, err)
		}
		out.Products = append(out.Products, model.Product{
			ID:          p.ID,
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       price,
			Condition:   model.ProductCondition(p.Condition),
			IsActive:    true,
		})
	}

	out.Categories = doc.Blog.Categories
	out.Tags = doc.Blog.Tags

	categories := make(map[string]model.BlogCategory, len(out.Categories))
	for _, c := range out.Categories {
		categories[c.Slug] = c
	}
	tags := make(map[string]model.BlogTag, len(out.Tags))
	for _, t := range out.Tags {
		tags[t.Slug] = t
	}

	for _, p := range doc.Blog.Posts {
		cat, ok := categories[p.Category]
		if !ok {
			return Data{}, fmt.Errorf("post %s: unknown category %q", p.ID, p.Category)
		}
		publishedAt, err := time.Parse(time.RFC3339, p.PublishedAt)
		if err != nil {
			return Data{}, fmt.Errorf("post %s: invalid publishedAt: %w", p.ID, err)
		}
		postTags := make([]model.BlogTag, 0, len(p.Tags))
		for _, slug := range p.Tags {
			t, ok := tags[slug]
			if !ok {
				return Data{}, fmt.Errorf("post %s: unknown tag %q", p.ID, slug)
			}
			postTags = append(postTags, t)
		}
		out.Posts = append(out.Posts, model.BlogPost{
			ID:             p.ID,
			Slug:           p.Slug,
			Title:          p.Title,
			Excerpt:        p.Excerpt,
			Content:        p.Content,
			CategorySlug:   cat.Slug,
			Category:       cat,
			Tags:           postTags,
			Author:         p.Author,
			CoverImage:     p.CoverImage,
			ReadingMinutes: p.ReadingMinutes,
			Status:         model.PostStatus(p.Status),
			PublishedAt:    publishedAt,
		})
	}

	return out, nil
}

// Apply は既存行を上書きせずに投入する（何度実行してもよい）。
func Apply(ctx context.Context, gdb *gorm.DB, data Data) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data.Discounts) > 0 {
			if err := insertIgnore(tx, &data.Discounts); err != nil {
				return fmt.Errorf("seed discounts: %w", err)
			}
		}
		if len(data.Products) > 0 {
			if err := insertIgnore(tx, &data.Products); err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}
		if len(data.Categories) > 0 {
			if err := insertIgnore(tx, &data.Categories); err != nil {
				return fmt.Errorf("seed blog categories: %w", err)
			}
		}
		if len(data.Tags) > 0 {
			if err := insertIgnore(tx, &data.Tags); err != nil {
				return fmt.Errorf("seed blog tags: %w", err)
			}
		}
		if len(data.Posts) > 0 {
			if err := insertIgnore(tx, &data.Posts); err != nil {
				return fmt.Errorf("seed blog posts: %w", err)
			}
		}
		return nil
	})
}

func insertIgnore(tx *gorm.DB, rows any) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}
