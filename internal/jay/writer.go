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
	"io"

	"github.com/memcolumn/coldt/internal/column"
	"github.com/memcolumn/coldt/internal/frame"
	"github.com/memcolumn/coldt/internal/rtpool"
)

// Write serializes dt to w in the Jay format. Every column is
// materialized first (a virtual column has no backing buffer to dump
// verbatim), then its data buffer -- and, for string columns, its
// concatenated-bytes buffer -- is written zero-padded out to the next
// 8-byte boundary. With no options every buffer is stored verbatim so
// open_jay can map it back with a zero-copy View; WithLZ4/WithXZ trade
// that zero-copy read for a smaller file.
func Write(p *rtpool.Pool, w io.Writer, dt *frame.DataTable, opts ...Option) error {
	cfg := applyOptions(opts)
	n := dt.Ncols()
	names := dt.Names()
	cols := make([]*column.StorageColumn, n)
	for i := 0; i < n; i++ {
		sc, err := column.Materialize(p, dt.ColumnAt(i))
		if err != nil {
			return err
		}
		cols[i] = sc
	}

	if _, err := w.Write(header[:]); err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}

	var offset int64
	metas := make([]columnMeta, n)
	for i, sc := range cols {
		m := columnMeta{
			Name:  names[i],
			Stype: sc.Stype().String(),
			Nrows: sc.Nrows(),
			Codec: cfg.codec,
		}

		data, err := compressBytes(cfg.codec, sc.DataBuffer().Rptr())
		if err != nil {
			return err
		}
		m.DataOffset = offset
		m.DataLength = int64(len(data))
		m.DataRawLength = int64(len(sc.DataBuffer().Rptr()))
		if _, err := w.Write(data); err != nil {
			return rtpool.Wrap(rtpool.IOError, err)
		}
		offset += int64(len(data))
		pad := alignUp(offset) - offset
		if err := writeZeroPadding(w, pad); err != nil {
			return rtpool.Wrap(rtpool.IOError, err)
		}
		offset += pad

		if sc.Stype().Ltype() == column.LString {
			rawStr := sc.StrBuffer().Rptr()
			str, err := compressBytes(cfg.codec, rawStr)
			if err != nil {
				return err
			}
			m.HasStr = true
			m.StrOffset = offset
			m.StrLength = int64(len(str))
			m.StrRawLength = int64(len(rawStr))
			if _, err := w.Write(str); err != nil {
				return rtpool.Wrap(rtpool.IOError, err)
			}
			offset += int64(len(str))
			pad := alignUp(offset) - offset
			if err := writeZeroPadding(w, pad); err != nil {
				return rtpool.Wrap(rtpool.IOError, err)
			}
			offset += pad
		}

		st := sc.Stats()
		if st.Valid() {
			nc := sc.Nrows() - st.Count
			m.NullCount = &nc
			if sc.Stype().Ltype() != column.LString {
				mn, mx := st.Min, st.Max
				m.Min, m.Max = &mn, &mx
			}
		}
		metas[i] = m
	}

	rec := metaRecord{Nkeys: dt.Nkeys(), Columns: metas}
	metaBytes, err := json.Marshal(rec)
	if err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}
	if _, err := w.Write(metaBytes); err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(metaBytes)))
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}

	var trailer [8]byte
	copy(trailer[4:], jay1Suffix[:])
	if _, err := w.Write(trailer[:]); err != nil {
		return rtpool.Wrap(rtpool.IOError, err)
	}
	return nil
}
