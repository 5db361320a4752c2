package dto

type PaymentInput struct {
	TipoPago  *string  `json:"tipo_pago" binding:"omitempty,max=40"`
	Monto     *float64 `json:"monto" binding:"omitempty,gt=0"`
	Fecha     *string  `json:"fecha" binding:"omitempty,fecha"`
	Estado    *string  `json:"estado" binding:"omitempty,oneof=pendiente completado rechazado"`
	IDUsuario *uint    `json:"id_usuario"`
}

type SuggestionInput struct {
	Preferencias string `json:"preferencias" binding:"required"`
}

type ReviewInput struct {
	IDHotel      *uint   `json:"id_hotel"`
	IDLugar      *uint   `json:"id_lugar"`
	IDPaquete    *uint   `json:"id_paquete"`
	Calificacion *int    `json:"calificacion" binding:"omitempty,min=1,max=5"`
	Comentario   *string `json:"comentario"`
	Estado       *bool   `json:"estado"`
}
