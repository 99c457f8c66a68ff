package otquery

import (
	"golang.org/x/image/font/sfnt"
)

// nameKey identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type nameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

type EncodingID uint16

const (
	EncodingIDMacintoshRoman EncodingID = 0
	EncodingIDWindowsSymbol  EncodingID = 0
	EncodingIDWindowsBMP     EncodingID = 1
	EncodingIDUnicodeBMP     EncodingID = 3
	EncodingIDUnicodeFull    EncodingID = 4
	EncodingIDWindowsFull    EncodingID = 10
)

// Language IDs for English, which are preferred over other languages.
const (
	languageWindowsEnUS uint16 = 0x0409
	languageMacEnglish  uint16 = 0
)

// supported reports whether strings of a name record can be decoded.
func (key nameKey) supported() bool {
	switch key.Platform {
	case PlatformIDUnicode:
		return true
	case PlatformIDWindows:
		return key.Encoding == EncodingIDWindowsSymbol || key.Encoding == EncodingIDWindowsBMP ||
			key.Encoding == EncodingIDWindowsFull
	case PlatformIDMacintosh:
		return key.Encoding == EncodingIDMacintoshRoman
	}
	return false
}

// rank orders name records by preference; lower is better. lang is a preferred
// Windows language ID, 0 meaning English.
func (key nameKey) rank(lang uint16) int {
	if lang == 0 {
		lang = languageWindowsEnUS
	}
	switch key.Platform {
	case PlatformIDWindows:
		if key.Language == lang {
			return 0
		}
		if key.Language == languageWindowsEnUS {
			return 1
		}
		return 3
	case PlatformIDUnicode:
		return 2
	}
	if key.Language == languageMacEnglish {
		return 4
	}
	return 5
}
