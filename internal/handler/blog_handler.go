package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /blog の公開API
type BlogHandler struct {
	uc *usecase.BlogUsecase
}

// DI
func NewBlogHandler(uc *usecase.BlogUsecase) *BlogHandler {
	return &BlogHandler{uc: uc}
}

func (h *BlogHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/blog")
	g.GET("/posts", h.listPosts)
	g.GET("/posts/:slug", h.getPost)
	g.GET("/categories", h.listCategories)
}

func (h *BlogHandler) listPosts(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	perPage := usecase.DefaultPostsPerPage
	if v := c.QueryParam("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid perPage"})
		}
		perPage = n
	}

	out, err := h.uc.ListPosts(c.Request().Context(), usecase.ListPostsInput{
		Page:     page,
		PerPage:  perPage,
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BlogHandler) getPost(c echo.Context) error {
	out, err := h.uc.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BlogHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
