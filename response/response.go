package response

import (
	"net/http"

	apperrors "munaybol/errors"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON answer
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Error      string      `json:"error,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page of a collection
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success writes a 200 answer
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Éxito",
		Data: data,
	})
}

// SuccessMessage writes a 200 answer with a custom message
func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: message,
		Data: data,
	})
}

// Created writes a 201 answer
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Creado",
		Data: data,
	})
}

// SuccessWithPagination writes a 200 answer with pagination
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Éxito",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error writes an error answer with an explicit status
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code: 0,
		Mess: message,
	})
}

// FromError maps err to its HTTP status. Errors that are not AppErrors become 500.
func FromError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	status := apperrors.HTTPStatus(appErr.Code)
	if status == http.StatusInternalServerError {
		ServerError(c)
		return
	}
	c.JSON(status, Response{
		Code:  0,
		Mess:  appErr.Message,
		Error: string(appErr.Code),
	})
}

// ServerError writes a 500 answer
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Error del servidor",
	})
}

// Unauthorized writes a 401 answer
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:  0,
		Mess:  "Las credenciales de autenticación no se proveyeron.",
		Error: string(apperrors.ErrCodeUnauthorized),
	})
}

// Forbidden writes a 403 answer
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Response{
		Code:  0,
		Mess:  "No tiene permiso para realizar esta acción.",
		Error: string(apperrors.ErrCodeForbidden),
	})
}

// NotFound writes a 404 answer
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:  0,
		Mess:  "No encontrado.",
		Error: string(apperrors.ErrCodeDBNotFound),
	})
}

// BadRequest writes a 400 answer
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:  0,
		Mess:  message,
		Error: string(apperrors.ErrCodeValidation),
	})
}
