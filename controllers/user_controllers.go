package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func userUpdate(in dto.UserUpdateInput) services.UserUpdate {
	return services.UserUpdate{
		Nombre:      in.Nombre,
		Correo:      in.Correo,
		Pais:        in.Pais,
		Pasaporte:   in.Pasaporte,
		AvatarURL:   in.AvatarURL,
		Contrasenia: in.Contrasenia,
		Rol:         in.Rol,
		Estado:      in.Estado,
	}
}

func (u *UserController) Me(c *gin.Context) {
	user, err := u.users.Me(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, user)
}

func (u *UserController) UpdateMe(c *gin.Context) {
	var in dto.UserUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	actor := middleware.Actor(c)
	user, err := u.users.Update(c.Request.Context(), actor, actor.UserID, userUpdate(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, user)
}

func (u *UserController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	users, total, err := u.users.List(c.Request.Context(), middleware.Actor(c), services.UserFilter{
		Estado: dto.QueryBool(c, "estado"),
		Rol:    c.Query("rol"),
		Q:      c.Query("q"),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, users, page, total)
}

func (u *UserController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := u.users.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, user)
}

func (u *UserController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.UserUpdateInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := u.users.Update(c.Request.Context(), middleware.Actor(c), id, userUpdate(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, user)
}

func (u *UserController) Disable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := u.users.Disable(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Usuario desactivado correctamente", nil)
}
