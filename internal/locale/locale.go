// Package locale maps request paths to a language code and text direction.
package locale

import "strings"

type Code string

const (
	English Code = "en"
	Arabic  Code = "ar"
	Chinese Code = "zh"
	Russian Code = "ru"
	German  Code = "de"
	French  Code = "fr"
	Hindi   Code = "hi"
)

// Default is used whenever a path carries no supported language prefix.
const Default = English

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

var supported = []Code{English, Arabic, Chinese, Russian, German, French, Hindi}

var rtlCodes = map[Code]bool{
	Arabic: true,
	"he":   true,
	"fa":   true,
	"ur":   true,
}

// Result is the resolved language of a single request.
type Result struct {
	Code      Code      `json:"language"`
	Direction Direction `json:"direction"`
}

// Supported returns the supported codes in their canonical order.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

func IsSupported(code Code) bool {
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

// Parse accepts a supported code in any letter case.
func Parse(s string) (Code, bool) {
	code := Code(strings.ToLower(strings.TrimSpace(s)))
	if !IsSupported(code) {
		return "", false
	}
	return code, true
}

func DirectionOf(code Code) Direction {
	if rtlCodes[code] {
		return RTL
	}
	return LTR
}

// Resolve inspects the leading segment of path. Paths without a supported
// prefix resolve to Default; that is not an error.
func Resolve(path string) Result {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(segment, "/?#"); i >= 0 {
		segment = segment[:i]
	}

	code := Code(segment)
	if !IsSupported(code) {
		code = Default
	}
	return Result{Code: code, Direction: DirectionOf(code)}
}
