package dto

type LoginInput struct {
	Correo      string `json:"correo" binding:"required"`
	Contrasenia string `json:"contrasenia" binding:"required"`
}

type RegisterInput struct {
	Nombre      string `json:"nombre" binding:"required,max=100"`
	Correo      string `json:"correo" binding:"required,email"`
	Contrasenia string `json:"contrasenia" binding:"required,min=6"`
	Pais        string `json:"pais" binding:"max=60"`
	Pasaporte   string `json:"pasaporte" binding:"max=40"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

type GoogleLoginInput struct {
	Token string `json:"token" binding:"required"`
}

type AccessResponse struct {
	Access string `json:"access"`
}
