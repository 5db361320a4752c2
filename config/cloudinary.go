package config

import (
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
)

var Cloudinary *cloudinary.Cloudinary

// ConnectCloudinary returns nil when credentials are missing; uploads are then disabled.
func ConnectCloudinary(s Settings) (*cloudinary.Cloudinary, error) {
	if s.CloudinaryCloud == "" || s.CloudinaryKey == "" || s.CloudinarySecret == "" {
		log.Println("Cloudinary no configurado, subida de imágenes desactivada")
		return nil, nil
	}
	return cloudinary.NewFromParams(s.CloudinaryCloud, s.CloudinaryKey, s.CloudinarySecret)
}
