package dto

type HotelInput struct {
	Nombre         *string  `json:"nombre" binding:"omitempty,max=150"`
	Ubicacion      *string  `json:"ubicacion" binding:"omitempty,max=255"`
	Departamento   *string  `json:"departamento" binding:"omitempty,max=60"`
	Calificacion   *float64 `json:"calificacion" binding:"omitempty,gte=0,lte=5"`
	URL            *string  `json:"url" binding:"omitempty,max=500"`
	URLImagenHotel *string  `json:"url_imagen_hotel" binding:"omitempty,max=500"`
	Estado         *bool    `json:"estado"`
}

type PlaceInput struct {
	Nombre       *string `json:"nombre" binding:"omitempty,max=150"`
	Ubicacion    *string `json:"ubicacion" binding:"omitempty,max=255"`
	Departamento *string `json:"departamento" binding:"omitempty,max=60"`
	Tipo         *string `json:"tipo" binding:"omitempty,max=60"`
	Horario      *string `json:"horario" binding:"omitempty,max=120"`
	Descripcion  *string `json:"descripcion"`
	URLImage     *string `json:"url_image_lugar_turistico" binding:"omitempty,max=500"`
	Estado       *bool   `json:"estado"`
}

type PackageInput struct {
	Nombre      *string  `json:"nombre" binding:"omitempty,max=150"`
	Descripcion *string  `json:"descripcion"`
	Precio      *float64 `json:"precio" binding:"omitempty,gte=0"`
	IDHotel     *uint    `json:"id_hotel"`
	IDLugar     *uint    `json:"id_lugar"`
	Estado      *bool    `json:"estado"`
}

type RoomInput struct {
	Num             *string  `json:"num" binding:"omitempty,max=20"`
	Caracteristicas *string  `json:"caracteristicas"`
	Precio          *float64 `json:"precio" binding:"omitempty,gte=0"`
	CantHuespedes   *int     `json:"cant_huespedes" binding:"omitempty,min=1"`
	CodigoHotel     *uint    `json:"codigo_hotel"`
	Disponible      *bool    `json:"disponible"`
}
