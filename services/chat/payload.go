package chat

import (
	"fmt"
	"strings"
)

const (
	maxContextHotels = 3
	maxContextPlaces = 5
)

// StaticPayload is the answer built straight from the dataset
type StaticPayload struct {
	Departamento string   `json:"departamento"`
	Lugares      []Place  `json:"lugares"`
	Hoteles      []Hotel  `json:"hoteles"`
	Gastronomia  []string `json:"gastronomia"`
	Festividades []string `json:"festividades"`
	InfoPractica []string `json:"info_practica"`
}

// StaticPayload gathers places, hotels, food and practical info for a detection.
// A detected hotel or place is listed first.
func (ds *Dataset) StaticPayload(det Detection) StaticPayload {
	dept := det.DepartmentName()
	p := StaticPayload{Departamento: dept}

	hotels := ds.HotelsIn(dept, 0)
	if det.Hotel != nil {
		hotels = promoteHotel(hotels, *det.Hotel)
	}
	if len(hotels) > maxContextHotels {
		hotels = hotels[:maxContextHotels]
	}
	p.Hoteles = hotels

	places := ds.PlacesIn(dept, 0)
	if det.Place != nil {
		places = promotePlace(places, *det.Place)
	}
	if len(places) > maxContextPlaces {
		places = places[:maxContextPlaces]
	}
	p.Lugares = places

	if det.Department != nil {
		d := det.Department
		if d.ComidaTradicional != "" {
			p.Gastronomia = append(p.Gastronomia, d.ComidaTradicional)
		}
		p.Gastronomia = append(p.Gastronomia, d.PlatosExtra...)
		p.Festividades = append(p.Festividades, d.Festividades...)
		if d.FechaAniversario != "" {
			p.InfoPractica = append(p.InfoPractica, "Aniversario departamental: "+d.FechaAniversario)
		}
		if d.Capital != "" {
			p.InfoPractica = append(p.InfoPractica, "Capital: "+d.Capital)
		}
		if d.Clima != "" {
			p.InfoPractica = append(p.InfoPractica, "Clima: "+d.Clima)
		}
		if d.Altitud != "" {
			p.InfoPractica = append(p.InfoPractica, "Altitud: "+d.Altitud)
		}
		p.InfoPractica = append(p.InfoPractica, d.InfoPractica...)
	}
	return p
}

func promoteHotel(list []Hotel, h Hotel) []Hotel {
	out := []Hotel{h}
	for _, x := range list {
		if x.IDHotel != h.IDHotel || x.Nombre != h.Nombre {
			out = append(out, x)
		}
	}
	return out
}

func promotePlace(list []Place, p Place) []Place {
	out := []Place{p}
	for _, x := range list {
		if x.IDLugar != p.IDLugar || x.Nombre != p.Nombre {
			out = append(out, x)
		}
	}
	return out
}

// Markdown renders the payload with the same section headings the model is asked to use
func (p StaticPayload) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Departamento)

	if len(p.Lugares) > 0 {
		b.WriteString("## 📍 Lugares Turísticos\n\n")
		for _, l := range p.Lugares {
			fmt.Fprintf(&b, "- **%s**", l.Nombre)
			if l.Tipo != "" {
				fmt.Fprintf(&b, " (%s)", l.Tipo)
			}
			if l.Descripcion != "" {
				fmt.Fprintf(&b, ": %s", l.Descripcion)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(p.Hoteles) > 0 {
		b.WriteString("## 🏨 Hoteles Recomendados\n\n")
		for _, h := range p.Hoteles {
			fmt.Fprintf(&b, "- **%s**", h.Nombre)
			if h.Ubicacion != "" {
				fmt.Fprintf(&b, ", %s", h.Ubicacion)
			}
			if h.Calificacion > 0 {
				fmt.Fprintf(&b, " ⭐ %.1f", h.Calificacion)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(p.Gastronomia) > 0 {
		b.WriteString("## 🍽️ Gastronomía Típica\n\n")
		for _, g := range p.Gastronomia {
			fmt.Fprintf(&b, "- %s\n", g)
		}
		b.WriteString("\n")
	}

	if len(p.Festividades) > 0 {
		b.WriteString("## 🎭 Cultura y Festividades\n\n")
		for _, f := range p.Festividades {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if len(p.InfoPractica) > 0 {
		b.WriteString("## 💡 Información Práctica\n\n")
		for _, i := range p.InfoPractica {
			fmt.Fprintf(&b, "- %s\n", i)
		}
	}
	return strings.TrimSpace(b.String())
}

// contextBlock is the data section appended to the system prompt
func (ds *Dataset) contextBlock(det Detection) string {
	if !det.Found() {
		return ""
	}
	p := ds.StaticPayload(det)

	var b strings.Builder
	fmt.Fprintf(&b, "DATOS OFICIALES DE %s:\n", strings.ToUpper(p.Departamento))
	if det.Department != nil {
		if det.Department.FechaAniversario != "" {
			fmt.Fprintf(&b, "- Aniversario: %s\n", det.Department.FechaAniversario)
		}
		if det.Department.ComidaTradicional != "" {
			fmt.Fprintf(&b, "- Comida tradicional: %s\n", det.Department.ComidaTradicional)
		}
	}
	if len(p.Hoteles) > 0 {
		b.WriteString("HOTELES:\n")
		for _, h := range p.Hoteles {
			fmt.Fprintf(&b, "- %s (%s) calificación %.1f\n", h.Nombre, h.Ubicacion, h.Calificacion)
		}
	}
	if len(p.Lugares) > 0 {
		b.WriteString("LUGARES:\n")
		for _, l := range p.Lugares {
			fmt.Fprintf(&b, "- %s [%s]: %s\n", l.Nombre, l.Tipo, truncate(l.Descripcion, 100))
		}
	}
	return b.String()
}
