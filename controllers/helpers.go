package controllers

import (
	"strconv"

	"munaybol/dto"
	"munaybol/errors"
	"munaybol/repository"
	"munaybol/response"
	"munaybol/validator"

	"github.com/gin-gonic/gin"
)

// fail hands err to middleware.ErrorHandler
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON binds the body and reports binding problems as 400
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		fail(c, validator.BindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindQuery(out); err != nil {
		fail(c, validator.BindingError(err))
		return false
	}
	return true
}

// idParam parses a numeric path parameter; malformed ids are reported as not found
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		fail(c, errors.NotFound("No encontrado."))
		return 0, false
	}
	return uint(v), true
}

// paginated writes a list with the normalized page/limit actually applied
func paginated(c *gin.Context, data interface{}, q dto.PageQuery, total int64) {
	page, limit := repository.NormalizePage(q.Page, q.Limit)
	response.SuccessWithPagination(c, data, page, limit, int(total))
}
