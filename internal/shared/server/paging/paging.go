package paging

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Params is a resolved page/limit pair.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FromQuery reads ?page and ?limit. Invalid or missing values fall back to
// page 1 and DefaultLimit; limit is capped at MaxLimit.
func FromQuery(c *gin.Context) Params {
	page := atoiOr(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := atoiOr(c.Query("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

func atoiOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
