// Package language owns the fixed set of core languages and the bijection
// between short storage codes ("en") and long region-qualified codes ("en-us").
package language

import (
	"errors"
	"strings"
)

// Language is a short storage code; its string value doubles as the key part
// of the i18n_dict column name.
type Language string

const (
	CHS Language = "chs"
	CHT Language = "cht"
	DE  Language = "de"
	EN  Language = "en"
	ES  Language = "es"
	FR  Language = "fr"
	ID  Language = "id"
	JP  Language = "jp"
	KR  Language = "kr"
	PT  Language = "pt"
	RU  Language = "ru"
	TH  Language = "th"
	VI  Language = "vi"
)

// Core lists every language with a dedicated storage column, in column order.
var Core = []Language{CHS, CHT, DE, EN, ES, FR, ID, JP, KR, PT, RU, TH, VI}

// longByShort is the canonical short -> long mapping; shortByLong below is
// derived from it so the two can never drift apart.
var longByShort = map[Language]string{
	CHS: "zh-cn",
	CHT: "zh-tw",
	DE:  "de-de",
	EN:  "en-us",
	ES:  "es-es",
	FR:  "fr-fr",
	ID:  "id-id",
	JP:  "ja-jp",
	KR:  "ko-kr",
	PT:  "pt-pt",
	RU:  "ru-ru",
	TH:  "th-th",
	VI:  "vi-vn",
}

var shortByLong = func() map[string]Language {
	m := make(map[string]Language, len(longByShort))
	for s, l := range longByShort {
		m[l] = s
	}
	return m
}()

// ErrNotSupported is returned for codes outside both the short and long domains.
var ErrNotSupported = errors.New("language not supported")

// Normalize maps a short or long code (case-insensitive) to its Language.
// Membership is decided by table lookup, never by code length.
func Normalize(code string) (Language, error) {
	code = strings.ToLower(code)
	if _, ok := longByShort[Language(code)]; ok {
		return Language(code), nil
	}
	if short, ok := shortByLong[code]; ok {
		return short, nil
	}
	return "", ErrNotSupported
}

// Long returns the region-qualified external form of l.
func (l Language) Long() string {
	return longByShort[l]
}

// Column returns the i18n_dict column holding l's text.
func (l Language) Column() string {
	return string(l) + "_text"
}

// Synthetic pass-through tokens valid only in the dictionary-download path.
const (
	TokenAll = "all"
	TokenMD5 = "md5"
)

// IsDictToken reports whether s names a synthetic dictionary artifact
// (aggregate or checksum file) rather than a real language.
func IsDictToken(s string) bool {
	return s == TokenAll || s == TokenMD5
}
