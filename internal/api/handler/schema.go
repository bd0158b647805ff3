package handler

import "github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username     string `json:"username"     validate:"required,min=3,max=50"`
	Email        string `json:"email"        validate:"required,email"`
	Password     string `json:"password"     validate:"required,min=6,max=72"`
	CaptchaToken string `json:"captchaToken"`
}

type loginRequest struct {
	// Identifier is an email address or a username.
	Identifier   string `json:"identifier"   validate:"required"`
	Password     string `json:"password"     validate:"required"`
	CaptchaToken string `json:"captchaToken"`
}

type sessionUser struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	User        sessionUser `json:"user"`
}

// --- Articles ---

type createArticleRequest struct {
	Title       string   `json:"title"       validate:"required,max=200"`
	Content     string   `json:"content"     validate:"required"`
	Summary     string   `json:"summary"     validate:"required,max=500"`
	Category    string   `json:"category"    validate:"required,oneof=sports business entertainment technology politics health"`
	ImageURL    string   `json:"imageUrl"    validate:"omitempty,url"`
	Tags        []string `json:"tags"        validate:"omitempty,dive,required"`
	IsPublished *bool    `json:"isPublished"`
}

// updateArticleRequest is a partial update; absent fields stay unchanged.
type updateArticleRequest struct {
	Title       *string   `json:"title"       validate:"omitempty,min=1,max=200"`
	Content     *string   `json:"content"     validate:"omitempty,min=1"`
	Summary     *string   `json:"summary"     validate:"omitempty,min=1,max=500"`
	Category    *string   `json:"category"    validate:"omitempty,oneof=sports business entertainment technology politics health"`
	ImageURL    *string   `json:"imageUrl"    validate:"omitempty"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

func (r updateArticleRequest) toPatch() domain.ArticlePatch {
	p := domain.ArticlePatch{
		Title:       r.Title,
		Content:     r.Content,
		Summary:     r.Summary,
		ImageURL:    r.ImageURL,
		Tags:        r.Tags,
		IsPublished: r.IsPublished,
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		p.Category = &c
	}
	return p
}

// --- Users ---

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor user"`
}
