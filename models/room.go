package models

import "time"

type Room struct {
	Num             string    `gorm:"primaryKey;column:num;size:20" json:"num"`
	Caracteristicas string    `gorm:"type:text" json:"caracteristicas"`
	Precio          float64   `gorm:"not null" json:"precio"`
	CantHuespedes   int       `gorm:"column:cant_huespedes;not null" json:"cant_huespedes"`
	CodigoHotel     uint      `gorm:"column:codigo_hotel;not null;index" json:"codigo_hotel"`
	Disponible      Lifecycle `gorm:"column:disponible;not null" json:"disponible"`
	FechaCreacion   time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
	Hotel           *Hotel    `gorm:"foreignKey:CodigoHotel;references:IDHotel" json:"hotel,omitempty"`
}

func (Room) TableName() string        { return "habitaciones" }
func (Room) PrimaryKeyColumn() string { return "num" }
func (Room) LifecycleColumn() string  { return "disponible" }
