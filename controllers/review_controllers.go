package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

func reviewInput(in dto.ReviewInput) services.ReviewInput {
	return services.ReviewInput{
		IDHotel:      in.IDHotel,
		IDLugar:      in.IDLugar,
		IDPaquete:    in.IDPaquete,
		Calificacion: in.Calificacion,
		Comentario:   in.Comentario,
		Estado:       in.Estado,
	}
}

func (r *ReviewController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	reviews, total, err := r.reviews.List(c.Request.Context(), middleware.Actor(c), services.ReviewFilter{
		IDHotel:   dto.QueryUint(c, "id_hotel"),
		IDLugar:   dto.QueryUint(c, "id_lugar"),
		IDPaquete: dto.QueryUint(c, "id_paquete"),
		Estado:    dto.QueryBool(c, "estado"),
		Page:      page.Page,
		Limit:     page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, reviews, page, total)
}

func (r *ReviewController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	review, err := r.reviews.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

func (r *ReviewController) Create(c *gin.Context) {
	var in dto.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	review, err := r.reviews.Create(c.Request.Context(), middleware.Actor(c), reviewInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, review)
}

func (r *ReviewController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.ReviewInput
	if !bindJSON(c, &in) {
		return
	}
	review, err := r.reviews.Update(c.Request.Context(), middleware.Actor(c), id, reviewInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

func (r *ReviewController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := r.reviews.Disable(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Reseña desactivada correctamente", nil)
}
