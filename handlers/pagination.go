package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 2000
)

// ListParams are the query parameters of the station directory listing.
type ListParams struct {
	Limit int
	Query string
}

func ParseListParams(c *gin.Context) ListParams {
	p := ListParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	p.Query = c.Query("q")

	return p
}
