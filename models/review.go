package models

import "time"

type Review struct {
	IDReview      uint      `gorm:"primaryKey;column:id_review" json:"id_review"`
	IDUsuario     uint      `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	IDHotel       *uint     `gorm:"column:id_hotel;index" json:"id_hotel"`
	IDLugar       *uint     `gorm:"column:id_lugar;index" json:"id_lugar"`
	IDPaquete     *uint     `gorm:"column:id_paquete;index" json:"id_paquete"`
	Calificacion  int       `gorm:"not null" json:"calificacion"`
	Comentario    string    `gorm:"type:text" json:"comentario"`
	Estado        Lifecycle `gorm:"column:estado;not null" json:"estado"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Review) TableName() string        { return "reviews" }
func (Review) PrimaryKeyColumn() string { return "id_review" }
func (Review) LifecycleColumn() string  { return "estado" }

// TargetCount counts how many of hotel, place and package are set
func (r Review) TargetCount() int {
	n := 0
	for _, id := range []*uint{r.IDHotel, r.IDLugar, r.IDPaquete} {
		if id != nil {
			n++
		}
	}
	return n
}
