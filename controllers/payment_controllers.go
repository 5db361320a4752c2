package controllers

import (
	"munaybol/dto"
	"munaybol/middleware"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

// PaymentController serves payments and travel suggestions
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

func paymentInput(in dto.PaymentInput) services.PaymentInput {
	return services.PaymentInput{
		TipoPago:  in.TipoPago,
		Monto:     in.Monto,
		Fecha:     dto.ParseDate(in.Fecha),
		Estado:    in.Estado,
		IDUsuario: in.IDUsuario,
	}
}

func (p *PaymentController) List(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	payments, total, err := p.payments.ListPayments(c.Request.Context(), middleware.Actor(c), services.PaymentFilter{
		Estado: c.Query("estado"),
		Page:   page.Page,
		Limit:  page.Limit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, payments, page, total)
}

func (p *PaymentController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	payment, err := p.payments.GetPayment(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, payment)
}

func (p *PaymentController) Create(c *gin.Context) {
	var in dto.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := p.payments.CreatePayment(c.Request.Context(), middleware.Actor(c), paymentInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, payment)
}

func (p *PaymentController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in dto.PaymentInput
	if !bindJSON(c, &in) {
		return
	}
	payment, err := p.payments.UpdatePayment(c.Request.Context(), middleware.Actor(c), id, paymentInput(in))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, payment)
}

func (p *PaymentController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := p.payments.DeletePayment(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Pago eliminado correctamente", nil)
}

func (p *PaymentController) ListSuggestions(c *gin.Context) {
	var page dto.PageQuery
	if !bindQuery(c, &page) {
		return
	}
	items, total, err := p.payments.ListSuggestions(c.Request.Context(), middleware.Actor(c), page.Page, page.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	paginated(c, items, page, total)
}

func (p *PaymentController) GetSuggestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := p.payments.GetSuggestion(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, item)
}

func (p *PaymentController) CreateSuggestion(c *gin.Context) {
	var in dto.SuggestionInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := p.payments.CreateSuggestion(c.Request.Context(), middleware.Actor(c), in.Preferencias)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, item)
}

func (p *PaymentController) DeleteSuggestion(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := p.payments.DeleteSuggestion(c.Request.Context(), middleware.Actor(c), id); err != nil {
		fail(c, err)
		return
	}
	response.SuccessMessage(c, "Sugerencia eliminada correctamente", nil)
}
