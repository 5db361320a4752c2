package dto

import (
	"strconv"

	"munaybol/response"

	"github.com/gin-gonic/gin"
)

// PaginatedResponse documents list answers in swagger
type PaginatedResponse[T any] struct {
	Data       T                   `json:"data"`
	Pagination response.Pagination `json:"pagination"`
}

// PageQuery is bound from ?page=&limit=
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// QueryBool reads an optional boolean query parameter; invalid values count as absent
func QueryBool(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// QueryUint reads an optional unsigned id query parameter
func QueryUint(c *gin.Context, name string) *uint {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

type MessageResponse struct {
	Message string `json:"message"`
}
