/*
 * compressed.go, part of preparemd.
 *
 *
 * Copyright 2024 The preparemd Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package preparemd

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// readCloser closes both the decompressor and the file under it.
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenFile opens name for reading, decompressing it on the fly if its
// extension is .gz or .zst. Any other extension is read as is.
func OpenFile(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewError(ErrMissingFile, name, "", err)
		}
		return nil, err
	}
	reader := bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		gz, err := gzip.NewReader(reader)
		if err != nil {
			f.Close()
			return nil, NewError(ErrStructureParse, name, "bad gzip stream", err)
		}
		return &readCloser{gz, []func() error{gz.Close, f.Close}}, nil
	case ".zst":
		zs, err := zstd.NewReader(reader)
		if err != nil {
			f.Close()
			return nil, NewError(ErrStructureParse, name, "bad zstd stream", err)
		}
		return &readCloser{zs, []func() error{func() error { zs.Close(); return nil }, f.Close}}, nil
	}
	return &readCloser{reader, []func() error{f.Close}}, nil
}

// ReadFileText reads the whole (possibly compressed) file as a string.
func ReadFileText(name string) (string, error) {
	r, err := OpenFile(name)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", NewError(ErrMalformedLog, name, "read failed", err)
	}
	return string(b), nil
}
