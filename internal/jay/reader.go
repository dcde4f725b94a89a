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
package jay

import (
	"encoding/binary"
	"encoding/json"

	"github.com/memcolumn/coldt/internal/buffer"
	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

const minFileSize = 8 /*header*/ + 2 /*empty json object*/ + 8 /*meta size*/ + 8 /*trailer*/

// Read parses a complete in-memory Jay file. Column buffers are built
// as Views over data, not copies: open_jay(to_jay(tmp)) round-trips
// without re-allocating the payload.
func Read(data []byte) (*frame.DataTable, error) {
	if int64(len(data)) < minFileSize {
		return nil, errShortTrailer
	}
	if [8]byte(data[0:8]) != header {
		return nil, rtpool.New(rtpool.IOError, "jay: bad header magic")
	}

	trailer := data[len(data)-8:]
	var zero [4]byte
	if [4]byte(trailer[0:4]) != zero {
		return nil, rtpool.New(rtpool.IOError, "jay: bad trailer padding")
	}
	if !isValidTrailerSuffix([4]byte(trailer[4:8])) {
		return nil, rtpool.New(rtpool.IOError, "jay: bad trailer magic")
	}

	sizeOff := len(data) - 16
	metaLen := binary.LittleEndian.Uint64(data[sizeOff : sizeOff+8])
	metaStart := sizeOff - int(metaLen)
	if metaStart < 8 {
		return nil, rtpool.New(rtpool.IOError, "jay: metadata record exceeds file size")
	}
	metaBytes := data[metaStart:sizeOff]

	var rec metaRecord
	if err := json.Unmarshal(metaBytes, &rec); err != nil {
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}

	payload := buffer.NewExternal(data[8:metaStart])

	names := make([]string, len(rec.Columns))
	cols := make([]column.Column, len(rec.Columns))
	for i, m := range rec.Columns {
		st, ok := stypeFromName(m.Stype)
		if !ok {
			return nil, rtpool.Newf(rtpool.IOError, "jay: unknown stype %q for column %q", m.Stype, m.Name)
		}
		dataBuf, err := resolveColumnBuffer(payload, m.DataOffset, m.DataLength, m.DataRawLength, m.Codec)
		if err != nil {
			return nil, err
		}
		var strBuf buffer.Buffer
		if m.HasStr {
			strBuf, err = resolveColumnBuffer(payload, m.StrOffset, m.StrLength, m.StrRawLength, m.Codec)
			if err != nil {
				return nil, err
			}
		}
		names[i] = m.Name
		cols[i] = column.WrapStorageColumn(st, m.Nrows, dataBuf, strBuf)
	}

	return frame.New(names, cols, rec.Nkeys)
}

// resolveColumnBuffer maps an uncompressed column buffer as a
// zero-copy View over payload, or decompresses it into a freshly
// allocated byte slice wrapped as an External buffer when codec is
// non-empty.
func resolveColumnBuffer(payload buffer.Buffer, offset, length, rawLength int64, codec string) (buffer.Buffer, error) {
	view := buffer.NewView(payload, offset, length)
	if codec == "" {
		return view, nil
	}
	raw, err := decompressBytes(codec, view.Rptr(), rawLength)
	if err != nil {
		return nil, err
	}
	return buffer.NewExternal(raw), nil
}
