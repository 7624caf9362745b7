package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"marquee/internal/media"
)

var titleCaser = cases.Title(language.English)

// Hashtags derives the hashtag line for a post: a title tag, the fixed
// category tag, and up to three genre tags. "Dr. Strange!" as a movie with
// genres "Action, Adventure, Fantasy, Drama" yields
// "#DrStrange #Movie #Action #Adventure #Fantasy".
func Hashtags(title string, category media.Category, genres []string) string {
	tags := make([]string, 0, 5)

	if tag := titleTag(title); tag != "" {
		tags = append(tags, tag)
	}
	if tag := category.Tag(); tag != "" {
		tags = append(tags, tag)
	}
	for i, genre := range genres {
		if i == 3 {
			break
		}
		compact := strings.ReplaceAll(strings.TrimSpace(genre), " ", "")
		if compact != "" {
			tags = append(tags, "#"+compact)
		}
	}

	return strings.Join(tags, " ")
}

func titleTag(title string) string {
	var clean strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			clean.WriteRune(r)
		}
	}
	words := strings.Fields(clean.String())
	if len(words) == 0 {
		return ""
	}
	var tag strings.Builder
	tag.WriteByte('#')
	for _, word := range words {
		tag.WriteString(titleCaser.String(word))
	}
	return tag.String()
}
