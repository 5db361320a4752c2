package models

import "time"

type Payment struct {
	IDPago        uint      `gorm:"primaryKey;column:id_pago" json:"id_pago"`
	IDUsuario     uint      `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	TipoPago      string    `gorm:"column:tipo_pago;size:40;not null" json:"tipo_pago"`
	Monto         float64   `gorm:"not null" json:"monto"`
	Fecha         Date      `gorm:"column:fecha" json:"fecha"`
	Estado        string    `gorm:"size:20;not null" json:"estado"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Payment) TableName() string { return "pagos" }

type Suggestion struct {
	IDSugerencia  uint      `gorm:"primaryKey;column:id_sugerencia" json:"id_sugerencia"`
	IDUsuario     uint      `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	Preferencias  string    `gorm:"type:text;not null" json:"preferencias"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Suggestion) TableName() string { return "sugerencias" }
