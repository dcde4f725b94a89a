/*
Copyright (C) 2026  coldt contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package csvread

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names the source-text encodings options.encoding accepts;
// "auto" probes for valid UTF-8 first and falls back to win-1252, the
// same repair strategy data.table's fread applies to "non-ASCII but not
// valid UTF-8" input.
type Encoding string

const (
	EncAuto     Encoding = "auto"
	EncUTF8     Encoding = "utf-8"
	EncLatin1   Encoding = "latin-1"
	EncWin1251  Encoding = "win-1251"
	EncWin1252  Encoding = "win-1252"
	EncISO8859  Encoding = "iso-8859"
)

func charmapFor(e Encoding) *charmap.Charmap {
	switch e {
	case EncWin1251:
		return charmap.Windows1251
	case EncWin1252:
		return charmap.Windows1252
	case EncISO8859:
		return charmap.ISO8859_1
	case EncLatin1:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// DecodeField converts a raw field's bytes to UTF-8 per enc. EncAuto
// and EncUTF8 pass already-valid UTF-8 through untouched and repair
// invalid byte sequences using Windows-1252, the fallback codepage
// covering the ASCII superset most "mislabeled UTF-8" CSV exports
// actually use.
func DecodeField(raw string, enc Encoding) string {
	if enc == EncAuto || enc == EncUTF8 {
		if utf8.ValidString(raw) {
			return raw
		}
		return decodeWith(raw, charmap.Windows1252)
	}
	cm := charmapFor(enc)
	if cm == nil {
		return raw
	}
	return decodeWith(raw, cm)
}

func decodeWith(raw string, cm *charmap.Charmap) string {
	dec := cm.NewDecoder()
	out, err := decodeAll(dec, raw)
	if err != nil {
		return raw
	}
	return out
}

func decodeAll(dec *encoding.Decoder, raw string) (string, error) {
	b, err := dec.Bytes([]byte(raw))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
