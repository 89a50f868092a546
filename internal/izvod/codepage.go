package izvod

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultCodePage is how statement files have always been read. The bank
// writes Windows-1250, so four Croatian letters come out as Western
// European glyphs and are remapped afterwards.
const DefaultCodePage = "windows-1252"

// CodePageUTF8 disables single-byte decoding.
const CodePageUTF8 = "utf-8"

var charmaps = map[string]*charmap.Charmap{
	"windows-1252": charmap.Windows1252,
	"windows-1250": charmap.Windows1250,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
}

// glyphFixes maps the misread Windows-1252 glyphs back to Croatian letters.
var glyphFixes = map[rune]rune{
	'Æ': 'Ć',
	'È': 'Č',
	'æ': 'ć',
	'è': 'č',
}

// CodePages lists the supported code page names.
func CodePages() []string {
	names := make([]string, 0, len(charmaps)+1)
	for name := range charmaps {
		names = append(names, name)
	}
	names = append(names, CodePageUTF8)
	sort.Strings(names)
	return names
}

type codePage struct {
	name string
	cm   *charmap.Charmap // nil for UTF-8
}

func lookupCodePage(name string) (codePage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultCodePage
	}
	if name == CodePageUTF8 {
		return codePage{name: name}, nil
	}
	cm, ok := charmaps[name]
	if !ok {
		return codePage{}, fmt.Errorf("unsupported code page %q (supported: %s)", name, strings.Join(CodePages(), ", "))
	}
	return codePage{name: name, cm: cm}, nil
}

// decode converts one raw line to characters and applies the glyph fixes.
// Column positions are character positions, so the result is a rune slice.
func (cp codePage) decode(raw []byte, lineNo int) ([]rune, error) {
	out := make([]rune, 0, len(raw))
	if cp.cm == nil {
		for i := 0; i < len(raw); {
			r, size := utf8.DecodeRune(raw[i:])
			if r == utf8.RuneError && size <= 1 {
				return nil, &EncodingError{Line: lineNo, Column: i + 1, Byte: raw[i], CodePage: cp.name}
			}
			out = append(out, fixGlyph(r))
			i += size
		}
		return out, nil
	}
	for i, b := range raw {
		r := cp.cm.DecodeByte(b)
		if r == utf8.RuneError {
			return nil, &EncodingError{Line: lineNo, Column: i + 1, Byte: b, CodePage: cp.name}
		}
		out = append(out, fixGlyph(r))
	}
	return out, nil
}

func fixGlyph(r rune) rune {
	if fixed, ok := glyphFixes[r]; ok {
		return fixed
	}
	return r
}
