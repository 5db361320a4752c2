package chat

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Detection is what the composer recognised in a prompt
type Detection struct {
	Department *Department
	Hotel      *Hotel
	Place      *Place
	Fuzzy      bool
}

func (d Detection) Found() bool {
	return d.Department != nil || d.Hotel != nil || d.Place != nil
}

func (d Detection) DepartmentName() string {
	if d.Department != nil {
		return d.Department.Nombre
	}
	if d.Hotel != nil {
		return d.Hotel.Departamento
	}
	if d.Place != nil {
		return d.Place.Departamento
	}
	return ""
}

func containsPhrase(haystack, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+phrase+" ")
}

// Detect finds a hotel, place or department named in prompt. Exact phrase matches on the
// normalized text win; otherwise a fuzzy match tolerating small typos is attempted.
func (ds *Dataset) Detect(prompt string) Detection {
	norm := Normalize(prompt)
	var det Detection

	if name := longestMatch(norm, ds.hotelByNorm); name != "" {
		h := ds.hotels[ds.hotelByNorm[name]]
		det.Hotel = &h
	}
	if name := longestMatch(norm, ds.placeByNorm); name != "" {
		p := ds.places[ds.placeByNorm[name]]
		det.Place = &p
	}
	if name := longestMatch(norm, ds.deptByNorm); name != "" {
		d := ds.departments[ds.deptByNorm[name]]
		det.Department = &d
	}

	if !det.Found() {
		if name, ok := ds.matcher.match(norm); ok {
			det.Fuzzy = true
			if i, ok := ds.hotelByNorm[name]; ok {
				h := ds.hotels[i]
				det.Hotel = &h
			} else if i, ok := ds.placeByNorm[name]; ok {
				p := ds.places[i]
				det.Place = &p
			} else if i, ok := ds.deptByNorm[name]; ok {
				d := ds.departments[i]
				det.Department = &d
			}
		}
	}

	if det.Department == nil {
		if d, ok := ds.Department(det.DepartmentName()); ok {
			det.Department = &d
		}
	}
	return det
}

// longestMatch prefers the longest name found in norm; equal lengths resolve alphabetically
func longestMatch(norm string, index map[string]int) string {
	best := ""
	for name := range index {
		if !containsPhrase(norm, name) {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	return best
}

const (
	fuzzyMinRunes    = 5
	fuzzyMaxDistance = 2
)

var levOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// fuzzyMatcher proposes candidates with closestmatch and accepts them by edit distance
type fuzzyMatcher struct {
	cm    *closestmatch.ClosestMatch
	names map[string]bool
}

func newFuzzyMatcher(names []string) *fuzzyMatcher {
	fm := &fuzzyMatcher{names: map[string]bool{}}
	for _, n := range names {
		fm.names[n] = true
	}
	if len(names) > 0 {
		fm.cm = closestmatch.New(names, []int{2, 3})
	}
	return fm
}

// match slides windows of one to three words over norm
func (fm *fuzzyMatcher) match(norm string) (string, bool) {
	if fm.cm == nil {
		return "", false
	}
	words := strings.Fields(norm)
	best, bestDist := "", fuzzyMaxDistance+1
	for size := 3; size >= 1; size-- {
		for i := 0; i+size <= len(words); i++ {
			window := strings.Join(words[i:i+size], " ")
			if len([]rune(window)) < fuzzyMinRunes {
				continue
			}
			candidate := fm.cm.Closest(window)
			if candidate == "" || !fm.names[candidate] {
				continue
			}
			dist := levenshtein.DistanceForStrings([]rune(window), []rune(candidate), levOptions)
			if dist < bestDist {
				best, bestDist = candidate, dist
			}
		}
	}
	return best, best != ""
}

var itineraryWords = map[string]bool{
	"itinerario": true, "itinerarios": true,
	"plan": true, "planes": true,
	"planifica": true, "planificar": true, "planificame": true,
	"planea": true, "planear": true,
	"ruta": true,
	"dias": true,
	"diario": true,
}

// IsItinerary reports whether the prompt asks for a day-by-day plan
func IsItinerary(prompt string) bool {
	for _, w := range strings.Fields(Normalize(prompt)) {
		if itineraryWords[w] {
			return true
		}
	}
	return false
}

const (
	DefaultItineraryDays = 3
	MaxItineraryDays     = 7
)

var daysRe = regexp.MustCompile(`(\d+)\s*dias?\b`)

// RequestedDays extracts "N días" from the prompt, clamped to [1, MaxItineraryDays]
func RequestedDays(prompt string) int {
	m := daysRe.FindStringSubmatch(Normalize(prompt))
	if m == nil {
		return DefaultItineraryDays
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return DefaultItineraryDays
	}
	if n > MaxItineraryDays {
		return MaxItineraryDays
	}
	return n
}

func sortHotels(hs []Hotel) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Calificacion > hs[j].Calificacion
	})
}
