package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/price-engine/internal/catalog"
	"github.com/hxuan190/price-engine/internal/domain"
	"github.com/hxuan190/price-engine/internal/http/httputil"
)

const minSearchQueryLen = 2

type TokenHandler struct {
	catalog *catalog.Catalog
}

func NewTokenHandler(cat *catalog.Catalog) *TokenHandler {
	return &TokenHandler{catalog: cat}
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup) {
	pub.GET("", h.listTokens)
	pub.GET("/search", h.searchTokens)
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

// TokenListResponse is one page of the token catalog
type TokenListResponse struct {
	Tokens     []domain.TokenMetadata `json:"tokens"`
	Pagination catalog.Pagination     `json:"pagination"`
}

// @Summary List known tokens
// @Description Page through the token catalog with 1-based page numbers.
// @Tags tokens
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Tokens per page (max 500)" default(50)
// @Success 200 {object} TokenListResponse
// @Router /api/v1/tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	items, pagination := h.catalog.Page(c.Request.Context(), page, pageSize)
	httputil.HandleSuccess(c, TokenListResponse{Tokens: items, Pagination: pagination})
}

// TokenSearchResponse lists catalog records matching a search query
type TokenSearchResponse struct {
	Query   string                 `json:"query"`
	Matches []domain.TokenMetadata `json:"matches"`
	Count   int                    `json:"count"`
}

// @Summary Search tokens
// @Description Case-insensitive substring search over token symbol and name, in catalog order.
// @Tags tokens
// @Produce json
// @Param query query string true "Search query (min 2 characters)" example("bonk")
// @Param limit query int false "Maximum matches" default(10)
// @Success 200 {object} TokenSearchResponse
// @Failure 400 {object} httputil.Response "Query too short"
// @Router /api/v1/tokens/search [get]
func (h *TokenHandler) searchTokens(c *gin.Context) {
	query := c.Query("query")
	if len(query) < minSearchQueryLen {
		httputil.HandleBadRequest(c, "query must be at least 2 characters")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	matches := h.catalog.Search(c.Request.Context(), query, limit)

	httputil.HandleSuccess(c, TokenSearchResponse{
		Query:   query,
		Matches: matches,
		Count:   len(matches),
	})
}
