package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mozillazg/go-unidecode"
)

var nonAlnum = regexp.MustCompile("[^a-zA-Z0-9]+")

// replaceSpecialSymbols turns any label into a lower-case ASCII token usable in file names.
func replaceSpecialSymbols(input string) string {
	processed := nonAlnum.ReplaceAllString(unidecode.Unidecode(input), "_")
	return strings.ToLower(strings.Trim(processed, "_"))
}

// chartFileName builds e.g. "market_cote_d_ivoire_20240102-150405.png".
func chartFileName(kind, subject, ext string, now time.Time) string {
	slug := replaceSpecialSymbols(subject)
	if slug == "" {
		slug = "chart"
	}
	return fmt.Sprintf("%s_%s_%s.%s", kind, slug, now.Format("20060102-150405"), ext)
}
