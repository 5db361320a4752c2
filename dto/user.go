package dto

type UserUpdateInput struct {
	Nombre      *string `json:"nombre" binding:"omitempty,max=100"`
	Correo      *string `json:"correo" binding:"omitempty,email"`
	Pais        *string `json:"pais" binding:"omitempty,max=60"`
	Pasaporte   *string `json:"pasaporte" binding:"omitempty,max=40"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=500"`
	Contrasenia *string `json:"contrasenia" binding:"omitempty,min=6"`
	Rol         *string `json:"rol" binding:"omitempty,rol"`
	Estado      *bool   `json:"estado"`
}
