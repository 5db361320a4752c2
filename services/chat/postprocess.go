package chat

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	bulletRe     = regexp.MustCompile(`^(\s*)[•●▪◦*]\s+`)
	dayHeaderRe  = regexp.MustCompile(`^[#*\s]*dia\s+(\d+)\b`)
)

// CleanMarkdown trims trailing spaces, unifies bullets and collapses runs of blank lines
func CleanMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		lines[i] = bulletRe.ReplaceAllString(line, "$1- ")
	}
	text = strings.Join(lines, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// FilterForeignDepartments drops lines that name a department other than keep
func FilterForeignDepartments(text string, departments []string, keep string) string {
	keep = Normalize(keep)
	var foreign []string
	for _, d := range departments {
		if d != keep && !containsPhrase(keep, d) {
			foreign = append(foreign, d)
		}
	}
	if len(foreign) == 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		norm := Normalize(line)
		drop := false
		for _, d := range foreign {
			if containsPhrase(norm, d) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// CapDays removes every "Día N" section with N greater than maxDays.
// A dropped section ends at the next markdown heading that is not a day header.
func CapDays(text string, maxDays int) string {
	var out []string
	dropping := false
	for _, line := range strings.Split(text, "\n") {
		norm := strings.ToLower(strings.TrimSpace(unaccentLine(line)))
		if m := dayHeaderRe.FindStringSubmatch(norm); m != nil {
			n, _ := strconv.Atoi(m[1])
			dropping = n > maxDays
		} else if dropping && strings.HasPrefix(strings.TrimSpace(line), "#") {
			dropping = false
		}
		if !dropping {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func unaccentLine(s string) string {
	return strings.NewReplacer("í", "i", "Í", "I").Replace(s)
}

// PostProcess runs the cleanup chain applied to every model answer
func PostProcess(text string, departments []string, keep string, itinerary bool, days int) string {
	text = CleanMarkdown(text)
	if keep != "" {
		text = FilterForeignDepartments(text, departments, keep)
	}
	if itinerary {
		text = CapDays(text, days)
	}
	return CleanMarkdown(text)
}
