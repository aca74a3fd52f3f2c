package model

import (
	"strings"
	"unicode"
)

// cityCollisions lists names that clash with their country's name and are
// suffixed with "City" when canonicalized.
var cityCollisions = map[string]bool{
	"Singapore": true,
	"HongKong":  true,
}

// keepCitySuffix lists identifiers whose trailing "City" belongs to the name.
var keepCitySuffix = map[string]bool{
	"HoChiMinhCity": true,
}

const citySuffix = "City"

// Canonicalize turns a display name into its cache key: spaces and
// underscores are removed, and names colliding with a country get a "City"
// suffix.
func Canonicalize(name string) string {
	key := strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return -1
		}
		return r
	}, name)
	if cityCollisions[key] {
		key += citySuffix
	}
	return key
}

// SplitWords inserts a space before every interior uppercase letter.
func SplitWords(id string) string {
	var b strings.Builder
	for i, r := range id {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CountryName derives a country's display name from its identifier.
func CountryName(id string) string {
	return SplitWords(id)
}

// LocationName derives a location's display name from its identifier. The
// "City" suffix added by Canonicalize is dropped again unless it is part of
// the real name.
func LocationName(id string) string {
	name := SplitWords(id)
	if !keepCitySuffix[id] && strings.HasSuffix(name, " "+citySuffix) {
		name = strings.TrimSuffix(name, " "+citySuffix)
	}
	return name
}

// TripID strips spaces and slashes from a trip description.
func TripID(description string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return -1
		}
		return r
	}, description)
}
