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
	"bytes"
	"io"

	lz4 "github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"

	"github.com/memcolumn/coldt/internal/rtpool"
)

// Option configures an optional write-time transform. The zero value of
// writeConfig (codec "") writes column buffers verbatim, the same
// uncompressed layout open_jay's zero-copy View reads assume.
type Option func(*writeConfig)

type writeConfig struct {
	codec string
}

// WithLZ4 compresses every column buffer with LZ4, trading the
// zero-copy read path for smaller files -- the same choice
// persistence-files.go's callers make when picking a backend.
func WithLZ4() Option { return func(c *writeConfig) { c.codec = "lz4" } }

// WithXZ compresses every column buffer with XZ, a slower but
// higher-ratio alternative to WithLZ4.
func WithXZ() Option { return func(c *writeConfig) { c.codec = "xz" } }

func applyOptions(opts []Option) writeConfig {
	var cfg writeConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func compressBytes(codec string, raw []byte) ([]byte, error) {
	switch codec {
	case "lz4":
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		if err := zw.Close(); err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		return buf.Bytes(), nil
	case "xz":
		var buf bytes.Buffer
		zw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		if _, err := zw.Write(raw); err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		if err := zw.Close(); err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		return buf.Bytes(), nil
	default:
		return raw, nil
	}
}

func decompressBytes(codec string, compressed []byte, rawLen int64) ([]byte, error) {
	var r io.Reader
	switch codec {
	case "lz4":
		r = lz4.NewReader(bytes.NewReader(compressed))
	case "xz":
		zr, err := xz.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, rtpool.Wrap(rtpool.IOError, err)
		}
		r = zr
	default:
		return compressed, nil
	}
	out := make([]byte, rawLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, rtpool.Wrap(rtpool.IOError, err)
	}
	return out, nil
}
