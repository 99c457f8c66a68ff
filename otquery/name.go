package otquery

import (
	"fmt"
	"iter"

	"github.com/npillmayer/fontsys/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table, in the order of the name records.
//
// Unicode and Windows records are decoded as UTF-16BE, Macintosh records as
// Mac OS Roman. Records of other encodings, malformed or out-of-bounds records
// are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		for key, value := range nameRecords(otf) {
			if !yield(key.Name, value) {
				return
			}
		}
	}
}

// nameRecords yields all decodable name records with their keys.
func nameRecords(otf *ot.Font) iter.Seq2[nameKey, string] {
	names := checkNameTableSafe(otf)
	return func(yield func(nameKey, string) bool) {
		if names == nil {
			return
		}
		binary := names.Binary()
		count := int(u16(binary[2:4])) // number of name records
		stringStorageOffset := int(u16(binary[4:6]))
		for i := range count {
			recordSlice := binary[nameHeaderSize+i*nameRecordSize : nameHeaderSize+(i+1)*nameRecordSize]
			key := nameKey{
				Platform: PlatformID(u16(recordSlice[0:2])),
				Encoding: EncodingID(u16(recordSlice[2:4])),
				Language: u16(recordSlice[4:6]),
				Name:     sfnt.NameID(u16(recordSlice[6:8])),
			}
			if !key.supported() {
				continue
			}
			strLen := int(u16(recordSlice[8:10]))
			recordOffset := int(u16(recordSlice[10:12]))
			str := view(binary, stringStorageOffset+recordOffset, strLen)
			if str == nil {
				continue
			}
			stringValue, err := decodeName(key, str)
			if err != nil || stringValue == "" {
				continue
			}
			if !yield(key, stringValue) {
				return
			}
		}
	}
}

// checkNameTableSafe checks if the name table is safe to use, i.e. no out-of-bounds access,
// no empty tables, etc.
func checkNameTableSafe(otf *ot.Font) ot.Table {
	if otf == nil {
		return nil
	}
	table := otf.Table(ot.T("name"))
	if table == nil {
		tracer().Debugf("no name table found in font")
		return nil
	}
	b := table.Binary()
	if len(b) < nameHeaderSize {
		tracer().Debugf("name table too short: %d", len(b))
		return nil
	}
	count := int(u16(b[2:4]))
	strOff := int(u16(b[4:6]))
	if strOff > len(b) {
		tracer().Debugf("name table invalid string offset: %d", strOff)
		return nil
	}
	recordsEnd := nameHeaderSize + count*nameRecordSize
	if recordsEnd > len(b) {
		tracer().Debugf("name table record section out of bounds: count=%d", count)
		return nil
	}
	return table
}

func decodeName(key nameKey, str []byte) (string, error) {
	if key.Platform == PlatformIDMacintosh {
		s, err := charmap.Macintosh.NewDecoder().Bytes(str)
		if err != nil {
			return "", fmt.Errorf("decoding Mac Roman error: %v", err)
		}
		return string(s), nil
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	s, err := enc.NewDecoder().Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}

// Name returns the best string for a name ID. Windows English records are
// preferred over Unicode records, which in turn are preferred over Macintosh
// records. If the font does not contain the name ID, "" is returned.
func Name(otf *ot.Font, id sfnt.NameID) string {
	return lookupName(otf, 0, id)
}

// lookupName returns the best string for the first of ids found in the font.
func lookupName(otf *ot.Font, lang uint16, ids ...sfnt.NameID) string {
	best := bestNames(otf, lang)
	for _, id := range ids {
		if s, ok := best[id]; ok {
			return s
		}
	}
	return ""
}

// bestNames selects the preferred string for every name ID in the font.
func bestNames(otf *ot.Font, lang uint16) map[sfnt.NameID]string {
	best := make(map[sfnt.NameID]string)
	ranks := make(map[sfnt.NameID]int)
	for key, value := range nameRecords(otf) {
		r := key.rank(lang)
		if prev, ok := ranks[key.Name]; ok && prev <= r {
			continue
		}
		ranks[key.Name], best[key.Name] = r, value
	}
	return best
}

// nameInfoKeys maps name IDs to the keys used in NameInfo.
var nameInfoKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:            "copyright",
	sfnt.NameIDFamily:               "family",
	sfnt.NameIDSubfamily:            "subfamily",
	sfnt.NameIDUniqueIdentifier:     "uniqueid",
	sfnt.NameIDFull:                 "fullname",
	sfnt.NameIDVersion:              "version",
	sfnt.NameIDPostScript:           "postscript",
	sfnt.NameIDTrademark:            "trademark",
	sfnt.NameIDManufacturer:         "manufacturer",
	sfnt.NameIDDesigner:             "designer",
	sfnt.NameIDDescription:          "description",
	sfnt.NameIDTypographicFamily:    "typographic-family",
	sfnt.NameIDTypographicSubfamily: "typographic-subfamily",
	sfnt.NameIDSampleText:           "sample",
}

// NameInfo returns the well-known name strings of a font, keyed by
// "family", "subfamily", "fullname", "postscript", "version", etc.
// lang is a Windows language ID to prefer; 0 selects English.
func NameInfo(otf *ot.Font, lang uint16) map[string]string {
	info := make(map[string]string)
	for id, s := range bestNames(otf, lang) {
		if key, ok := nameInfoKeys[id]; ok {
			info[key] = s
		}
	}
	return info
}
