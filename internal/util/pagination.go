package util

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from = (page - 1) * size
	return from, size
}

// Envelope is the list response shape: results plus count and page links.
type Envelope struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func NewEnvelope(c echo.Context, count int64, page, size int, results any) Envelope {
	env := Envelope{Count: count, Results: results}
	if int64(page*size) < count {
		env.Next = pageURL(c, page+1)
	}
	if page > 1 {
		env.Previous = pageURL(c, page-1)
	}
	return env
}

func pageURL(c echo.Context, page int) *string {
	u := *c.Request().URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := c.Scheme() + "://" + c.Request().Host + u.String()
	return &s
}
