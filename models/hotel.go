package models

import "time"

type Hotel struct {
	IDHotel        uint      `gorm:"primaryKey;column:id_hotel" json:"id_hotel"`
	Nombre         string    `gorm:"size:150;not null" json:"nombre"`
	Ubicacion      string    `gorm:"size:255" json:"ubicacion"`
	Departamento   string    `gorm:"size:60;index" json:"departamento"`
	Calificacion   float64   `gorm:"not null" json:"calificacion"`
	Estado         Lifecycle `gorm:"column:estado;not null" json:"estado"`
	URL            string    `gorm:"column:url;size:500" json:"url"`
	URLImagenHotel string    `gorm:"column:url_imagen_hotel;size:500" json:"url_imagen_hotel"`
	FechaCreacion  time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Hotel) TableName() string        { return "hoteles" }
func (Hotel) PrimaryKeyColumn() string { return "id_hotel" }
func (Hotel) LifecycleColumn() string  { return "estado" }

// Place is a tourist attraction (lugar turístico)
type Place struct {
	IDLugar       uint      `gorm:"primaryKey;column:id_lugar" json:"id_lugar"`
	Nombre        string    `gorm:"size:150;not null" json:"nombre"`
	Ubicacion     string    `gorm:"size:255" json:"ubicacion"`
	Departamento  string    `gorm:"size:60;index" json:"departamento"`
	Tipo          string    `gorm:"size:60" json:"tipo"`
	Horario       string    `gorm:"size:120" json:"horario"`
	Descripcion   string    `gorm:"type:text" json:"descripcion"`
	URLImage      string    `gorm:"column:url_image_lugar_turistico;size:500" json:"url_image_lugar_turistico"`
	Estado        Lifecycle `gorm:"column:estado;not null" json:"estado"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Place) TableName() string        { return "lugares_turisticos" }
func (Place) PrimaryKeyColumn() string { return "id_lugar" }
func (Place) LifecycleColumn() string  { return "estado" }

// TourPackage is a bundle offered to travellers (paquete)
type TourPackage struct {
	IDPaquete     uint      `gorm:"primaryKey;column:id_paquete" json:"id_paquete"`
	Nombre        string    `gorm:"size:150;not null" json:"nombre"`
	Descripcion   string    `gorm:"type:text" json:"descripcion"`
	Precio        float64   `gorm:"not null" json:"precio"`
	IDHotel       *uint     `gorm:"column:id_hotel;index" json:"id_hotel"`
	IDLugar       *uint     `gorm:"column:id_lugar;index" json:"id_lugar"`
	Estado        Lifecycle `gorm:"column:estado;not null" json:"estado"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (TourPackage) TableName() string        { return "paquetes" }
func (TourPackage) PrimaryKeyColumn() string { return "id_paquete" }
func (TourPackage) LifecycleColumn() string  { return "estado" }
