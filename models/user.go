package models

import (
	"time"

	"munaybol/constants"
)

type User struct {
	ID            uint      `gorm:"primaryKey;column:id" json:"id"`
	Nombre        string    `gorm:"size:100;not null" json:"nombre"`
	Correo        string    `gorm:"size:150;uniqueIndex;not null" json:"correo"`
	Contrasenia   string    `gorm:"size:255" json:"-"`
	Rol           string    `gorm:"size:20;not null" json:"rol"`
	Pais          string    `gorm:"size:60" json:"pais"`
	Pasaporte     string    `gorm:"size:40" json:"pasaporte"`
	Estado        Lifecycle `gorm:"column:estado;not null" json:"estado"`
	AvatarURL     string    `gorm:"column:avatar_url;size:500" json:"avatar_url"`
	FechaCreacion time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (User) TableName() string        { return "usuarios" }
func (User) PrimaryKeyColumn() string { return "id" }
func (User) LifecycleColumn() string  { return "estado" }

func (u User) IsSuperAdmin() bool {
	return u.Rol == constants.RoleSuperAdmin
}
