package controllers

import (
	"munaybol/errors"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// UploadImage godoc
// @Summary  Subir imagen a Cloudinary
// @Tags     uploads
// @Security BearerAuth
// @Accept   multipart/form-data
// @Param    file   formData file   true  "Imagen"
// @Param    folder formData string false "Carpeta (hoteles, lugares, ...)"
// @Success  201 {object} response.Response
// @Router   /uploads/imagen/ [post]
func (u *UploadController) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, errors.NewAppError(errors.ErrCodeRequiredField, "El archivo es obligatorio.", err))
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(c, errors.Validation("No se pudo leer el archivo."))
		return
	}
	defer file.Close()

	url, err := u.uploads.UploadImage(c.Request.Context(), middleware.Actor(c), header.Filename, file, c.PostForm("folder"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, gin.H{"url": url})
}
