package models

import "time"

type Reservation struct {
	IDReserva      uint      `gorm:"primaryKey;column:id_reserva" json:"id_reserva"`
	FechaReserva   Date      `gorm:"column:fecha_reserva;not null;index:idx_reserva_room_dates,priority:2" json:"fecha_reserva"`
	FechaCaducidad Date      `gorm:"column:fecha_caducidad;not null;index:idx_reserva_room_dates,priority:3" json:"fecha_caducidad"`
	NumHabitacion  string    `gorm:"column:num_habitacion;size:20;not null;index:idx_reserva_room_dates,priority:1" json:"num_habitacion"`
	CodigoHotel    uint      `gorm:"column:codigo_hotel;not null;index" json:"codigo_hotel"`
	IDUsuario      uint      `gorm:"column:id_usuario;not null;index" json:"id_usuario"`
	IDPago         *uint     `gorm:"column:id_pago" json:"id_pago"`
	IDPaquete      *uint     `gorm:"column:id_paquete" json:"id_paquete"`
	Estado         Lifecycle `gorm:"column:estado;not null;index" json:"estado"`
	FechaCreacion  time.Time `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`
}

func (Reservation) TableName() string        { return "reservas" }
func (Reservation) PrimaryKeyColumn() string { return "id_reserva" }
func (Reservation) LifecycleColumn() string  { return "estado" }

func (r Reservation) Interval() Interval {
	return Interval{Start: r.FechaReserva, End: r.FechaCaducidad}
}

func (r Reservation) OwnedBy(userID uint) bool {
	return r.IDUsuario != 0 && r.IDUsuario == userID
}
