package domain

import "time"

// Category classifies an article.
type Category string

const (
	CategorySports        Category = "sports"
	CategoryBusiness      Category = "business"
	CategoryEntertainment Category = "entertainment"
	CategoryTechnology    Category = "technology"
	CategoryPolitics      Category = "politics"
	CategoryHealth        Category = "health"
)

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySports, CategoryBusiness, CategoryEntertainment,
		CategoryTechnology, CategoryPolitics, CategoryHealth:
		return true
	}
	return false
}

// ArticleSort selects the ordering of published article listings.
type ArticleSort string

const (
	SortNewest     ArticleSort = ""
	SortPopularity ArticleSort = "popularity"
	SortLikes      ArticleSort = "likes"
)

// Author is the display-safe projection of an article's author.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Article is the core content aggregate. AuthorID is fixed at creation.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	Category    Category  `json:"category"`
	AuthorID    string    `json:"-"`
	Author      *Author   `json:"author"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	IsPublished bool      `json:"isPublished"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ArticlePatch holds the editable fields of an article; nil means unchanged.
// There is deliberately no author field.
type ArticlePatch struct {
	Title       *string
	Content     *string
	Summary     *string
	Category    *Category
	ImageURL    *string
	Tags        *[]string
	IsPublished *bool
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Summary == nil &&
		p.Category == nil && p.ImageURL == nil && p.Tags == nil && p.IsPublished == nil
}
