package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"munaybol/errors"
	"munaybol/permissions"
	"munaybol/services/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const defaultUploadFolder = "munaybol"

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

type UploadService struct {
	uploader ImageUploader
	logger   logger.Logger
}

func NewUploadService(u ImageUploader, log logger.Logger) *UploadService {
	return &UploadService{uploader: u, logger: log}
}

// UploadImage validates the file name and forwards the content to the image store
func (s *UploadService) UploadImage(ctx context.Context, actor permissions.Actor, filename string, file io.Reader, folder string) (string, error) {
	if err := requireAdmin(actor, permissions.Upload, permissions.Create); err != nil {
		return "", err
	}
	if s.uploader == nil {
		return "", errors.NewAppError(errors.ErrCodeUpstream, "La subida de imágenes no está configurada.", nil)
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(filename))] {
		return "", errors.Validation("Formato de imagen no permitido.")
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = defaultUploadFolder
	} else {
		folder = defaultUploadFolder + "/" + folder
	}

	url, err := s.uploader.UploadImage(ctx, file, folder)
	if err != nil {
		s.logger.Error("subida de imagen %s: %v", filename, err)
		return "", errors.NewAppError(errors.ErrCodeUpstream, "No se pudo subir la imagen.", err)
	}
	return url, nil
}
