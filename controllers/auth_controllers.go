package controllers

import (
	"net/http"

	"munaybol/dto"
	"munaybol/errors"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const githubStateCookie = "gh_oauth_state"

type AuthController struct {
	auth   *services.AuthService
	github *services.GithubOAuth
}

func NewAuthController(auth *services.AuthService, github *services.GithubOAuth) *AuthController {
	return &AuthController{auth: auth, github: github}
}

func registerInput(in dto.RegisterInput) services.RegisterInput {
	return services.RegisterInput{
		Nombre:      in.Nombre,
		Correo:      in.Correo,
		Contrasenia: in.Contrasenia,
		Pais:        in.Pais,
		Pasaporte:   in.Pasaporte,
	}
}

// Register godoc
// @Summary  Registro de usuario
// @Tags     usuarios
// @Param    body body dto.RegisterInput true "Datos"
// @Success  201 {object} response.Response
// @Router   /usuarios/registro/ [post]
func (a *AuthController) Register(c *gin.Context) {
	var in dto.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := a.auth.Register(c.Request.Context(), registerInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, user)
}

func (a *AuthController) RegisterSuperAdmin(c *gin.Context) {
	var in dto.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := a.auth.RegisterSuperAdmin(c.Request.Context(), middleware.Actor(c), registerInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, user)
}

// Login godoc
// @Summary  Inicio de sesión
// @Tags     usuarios
// @Param    body body dto.LoginInput true "Credenciales"
// @Success  200 {object} response.Response{data=services.AuthResult}
// @Failure  401 {object} response.Response
// @Router   /usuarios/login/ [post]
func (a *AuthController) Login(c *gin.Context) {
	var in dto.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	result, err := a.auth.Login(c.Request.Context(), in.Correo, in.Contrasenia)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

func (a *AuthController) LoginSuperAdmin(c *gin.Context) {
	var in dto.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	result, err := a.auth.LoginSuperAdmin(c.Request.Context(), in.Correo, in.Contrasenia)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

func (a *AuthController) Refresh(c *gin.Context) {
	var in dto.RefreshInput
	if !bindJSON(c, &in) {
		return
	}
	access, err := a.auth.Refresh(c.Request.Context(), in.Refresh)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, dto.AccessResponse{Access: access})
}

func (a *AuthController) Google(c *gin.Context) {
	var in dto.GoogleLoginInput
	if !bindJSON(c, &in) {
		return
	}
	result, err := a.auth.LoginWithGoogle(c.Request.Context(), in.Token)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}

// GithubLogin redirects the browser to GitHub with a one-time state
func (a *AuthController) GithubLogin(c *gin.Context) {
	if a.github == nil {
		fail(c, errors.Validation("El inicio de sesión con GitHub no está configurado."))
		return
	}
	state := uuid.NewString()
	c.SetCookie(githubStateCookie, state, 600, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, a.github.AuthCodeURL(state))
}

func (a *AuthController) GithubCallback(c *gin.Context) {
	state, err := c.Cookie(githubStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		fail(c, errors.NewAppError(errors.ErrCodeInvalidToken, "Estado de OAuth inválido.", nil))
		return
	}
	c.SetCookie(githubStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	result, err := a.auth.LoginWithGithub(c.Request.Context(), c.Query("code"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, result)
}
