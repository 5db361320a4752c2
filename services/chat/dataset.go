package chat

import (
	"fmt"
	"os"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/goccy/go-json"
)

type Department struct {
	Nombre            string   `json:"nombre"`
	Capital           string   `json:"capital,omitempty"`
	FechaAniversario  string   `json:"fecha_aniversario"`
	ComidaTradicional string   `json:"comida_tradicional"`
	PlatosExtra       []string `json:"platos,omitempty"`
	Festividades      []string `json:"festividades,omitempty"`
	Clima             string   `json:"clima,omitempty"`
	Altitud           string   `json:"altitud,omitempty"`
	InfoPractica      []string `json:"info_practica,omitempty"`
	DatoCurioso       string   `json:"dato_curioso,omitempty"`
}

type Hotel struct {
	IDHotel      uint    `json:"id_hotel"`
	Nombre       string  `json:"nombre"`
	Departamento string  `json:"departamento"`
	Ubicacion    string  `json:"ubicacion"`
	Calificacion float64 `json:"calificacion"`
}

type Place struct {
	IDLugar      uint   `json:"id_lugar"`
	Nombre       string `json:"nombre"`
	Departamento string `json:"departamento"`
	Ubicacion    string `json:"ubicacion"`
	Tipo         string `json:"tipo"`
	Horario      string `json:"horario,omitempty"`
	Descripcion  string `json:"descripcion"`
}

// RawDataset is the on-disk layout of munaybol_data.json
type RawDataset struct {
	Departamentos        []Department `json:"departamentos"`
	DepartamentosBolivia []Department `json:"departamentos_bolivia,omitempty"`
	Hoteles              []Hotel      `json:"hoteles"`
	Lugares              []Place      `json:"lugares_turisticos"`
	LugaresAlt           []Place      `json:"lugares,omitempty"`
}

// Dataset is the immutable tourism table read by the composer. It is built once at
// startup and shared by pointer; nothing mutates it afterwards.
type Dataset struct {
	departments []Department
	hotels      []Hotel
	places      []Place

	deptByNorm  map[string]int
	hotelByNorm map[string]int
	placeByNorm map[string]int
	matcher     *fuzzyMatcher
}

// LoadDataset reads and indexes the JSON file at path
func LoadDataset(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var raw RawDataset
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return NewDataset(raw), nil
}

// NewDataset copies raw into an indexed Dataset
func NewDataset(raw RawDataset) *Dataset {
	ds := &Dataset{
		departments: append(append([]Department(nil), raw.Departamentos...), raw.DepartamentosBolivia...),
		hotels:      append([]Hotel(nil), raw.Hoteles...),
		places:      append(append([]Place(nil), raw.Lugares...), raw.LugaresAlt...),
		deptByNorm:  map[string]int{},
		hotelByNorm: map[string]int{},
		placeByNorm: map[string]int{},
	}

	var names []string
	for i, d := range ds.departments {
		n := Normalize(d.Nombre)
		ds.deptByNorm[n] = i
		names = append(names, n)
	}
	for i, h := range ds.hotels {
		n := Normalize(h.Nombre)
		ds.hotelByNorm[n] = i
		names = append(names, n)
	}
	for i, p := range ds.places {
		n := Normalize(p.Nombre)
		ds.placeByNorm[n] = i
		names = append(names, n)
	}
	ds.matcher = newFuzzyMatcher(names)
	return ds
}

func (ds *Dataset) Counts() (departments, hotels, places int) {
	return len(ds.departments), len(ds.hotels), len(ds.places)
}

// Department looks a department up by name, accent and case insensitive
func (ds *Dataset) Department(name string) (Department, bool) {
	i, ok := ds.deptByNorm[Normalize(name)]
	if !ok {
		return Department{}, false
	}
	return ds.departments[i], true
}

// DepartmentNames returns the normalized names of every department
func (ds *Dataset) DepartmentNames() []string {
	out := make([]string, 0, len(ds.departments))
	for _, d := range ds.departments {
		out = append(out, Normalize(d.Nombre))
	}
	return out
}

// HotelsIn returns up to limit hotels of a department, best rated first
func (ds *Dataset) HotelsIn(department string, limit int) []Hotel {
	key := Normalize(department)
	var out []Hotel
	for _, h := range ds.hotels {
		if Normalize(h.Departamento) == key {
			out = append(out, h)
		}
	}
	sortHotels(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// PlacesIn returns up to limit places of a department in dataset order
func (ds *Dataset) PlacesIn(department string, limit int) []Place {
	key := Normalize(department)
	var out []Place
	for _, p := range ds.places {
		if Normalize(p.Departamento) == key {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// Hotels returns a copy of every hotel, used by the import command
func (ds *Dataset) Hotels() []Hotel {
	return append([]Hotel(nil), ds.hotels...)
}

// Places returns a copy of every place, used by the import command
func (ds *Dataset) Places() []Place {
	return append([]Place(nil), ds.places...)
}

// Normalize lowercases, folds accents and keeps only letters, digits and single spaces
func Normalize(s string) string {
	folded := strings.ToLower(unidecode.Unidecode(s))
	var b strings.Builder
	space := true
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
