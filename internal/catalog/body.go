package catalog

import (
	"html"
	"regexp"
	"strings"
)

// The brand body is a pseudo-structured text blob: paragraphs separated by
// \r\n, sub-lines separated by a literal <br /> marker. Role credits sit on
// lines with fixed Russian prefixes; everything else that is not known
// boilerplate belongs to the plot.

const (
	roleCast = iota
	roleDirector
	roleWriter
)

var rolePrefixes = []struct {
	role   int
	prefix string
}{
	{roleCast, "В ролях: "},
	{roleCast, "В главной роли: "},
	{roleCast, "В главных ролях:"},
	{roleCast, "Текст читает: "},
	{roleCast, "Ведущие: "},
	{roleCast, "Ведущий: "},
	{roleCast, "Ведущая: "},
	{roleDirector, "Режиссер: "},
	{roleDirector, "Режиссеры: "},
	{roleDirector, "Режиссер-постановщик: "},
	{roleWriter, "Авторы сценария: "},
	{roleWriter, "Автор сценария: "},
	{roleWriter, "Сценарий: "},
}

var boilerplatePrefixes = []string{
	"Смотрите также: ",
	"Страница проекта",
	"Официальный сайт проекта",
}

var htmlTagPattern = regexp.MustCompile(`<[^<]+?>`)

// stripHTML decodes HTML entities and removes markup tags.
func stripHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlTagPattern.ReplaceAllString(html.UnescapeString(text), "")
}

type bodyInfo struct {
	Plot     string
	Cast     []string
	Director []string
	Writer   []string
}

// parseBody splits the free-text body into role credits and plot lines.
// Plot paragraphs are re-joined with a literal [CR] marker.
func parseBody(text string) bodyInfo {
	var info bodyInfo
	var plot []string

	text = strings.ReplaceAll(text, "\t", "")

	for _, paragraph := range strings.Split(text, "\r\n") {
		if paragraph == "" {
			continue
		}
		for _, line := range strings.Split(paragraph, "<br />") {
			line = stripHTML(line)
			if line == "" {
				continue
			}
			if role, names, ok := matchRole(line); ok {
				switch role {
				case roleCast:
					info.Cast = append(info.Cast, names...)
				case roleDirector:
					info.Director = append(info.Director, names...)
				case roleWriter:
					info.Writer = append(info.Writer, names...)
				}
				continue
			}
			if isBoilerplate(line) {
				continue
			}
			plot = append(plot, line)
		}
	}

	info.Plot = strings.Join(plot, "[CR]")
	return info
}

// matchRole tests a line against the role-prefix table, first match wins.
func matchRole(line string) (role int, names []string, ok bool) {
	for _, rp := range rolePrefixes {
		if strings.HasPrefix(line, rp.prefix) {
			return rp.role, splitNames(line[len(rp.prefix):]), true
		}
	}
	return 0, nil, false
}

// splitNames splits a credit list on ", " and flattens names conjoined
// with " и " ("and").
func splitNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ", ") {
		names = append(names, strings.Split(part, " и ")...)
	}
	return names
}

func isBoilerplate(line string) bool {
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
