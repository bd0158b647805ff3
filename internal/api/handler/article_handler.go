package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ridmikaw/backend-macro-labs-news-app/internal/api/metrics"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/domain"
	"github.com/ridmikaw/backend-macro-labs-news-app/internal/core/ports"
)

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	service ports.ArticleService
	metrics *metrics.Metrics
}

func NewArticleHandler(service ports.ArticleService, m *metrics.Metrics) *ArticleHandler {
	return &ArticleHandler{service: service, metrics: m}
}

// List handles GET /articles.
//
// @Summary      List published articles
// @Tags         articles
// @Produce      json
// @Param        sortBy    query     string  false  "popularity (views), likes, or newest when omitted"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   domain.Article
// @Failure      400       {object}  errorResponse
// @Router       /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.service.ListPublished(c.Request().Context(), ports.ListArticlesInput{
		SortBy:   c.QueryParam("sortBy"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// Get handles GET /articles/:id. Every call counts one view.
//
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  domain.Article
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	article, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.metrics.ArticleViewsTotal.Inc()
	return c.JSON(http.StatusOK, article)
}

// Create handles POST /articles.
//
// @Summary      Create an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createArticleRequest  true  "Article"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createArticleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	article, err := h.service.Create(c.Request().Context(), actor, ports.CreateArticleInput{
		Title:       req.Title,
		Content:     req.Content,
		Summary:     req.Summary,
		Category:    domain.Category(req.Category),
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		return err
	}

	h.metrics.ArticlesCreatedTotal.WithLabelValues(string(article.Category)).Inc()
	return c.JSON(http.StatusCreated, article)
}

// Update handles PUT /articles/:id.
//
// @Summary      Update an article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Article ID"
// @Param        body  body      updateArticleRequest  true  "Fields to change"
// @Success      200   {object}  domain.Article
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateArticleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	article, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /articles/:id.
//
// @Summary      Delete an article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Article deleted successfully"})
}

// Like handles POST /articles/:id/like. Anonymous callers may like.
//
// @Summary      Like an article
// @Tags         articles
// @Produce      json
// @Param        id   path      string  true  "Article ID"
// @Success      200  {object}  domain.Article
// @Failure      404  {object}  errorResponse
// @Failure      429  {object}  errorResponse
// @Router       /articles/{id}/like [post]
func (h *ArticleHandler) Like(c echo.Context) error {
	article, err := h.service.Like(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	h.metrics.ArticleLikesTotal.Inc()
	return c.JSON(http.StatusOK, article)
}
