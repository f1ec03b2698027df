// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/afero"
)

// DefaultMaxFileSize caps CUE input at 5MB unless a Schema says otherwise.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// Schema is an embedded CUE source plus the definition user data is
	// unified with.
	Schema struct {
		Source []byte
		// Definition is a CUE path such as "#Config".
		Definition string
		// MaxFileSize caps input size in bytes. Zero means DefaultMaxFileSize.
		MaxFileSize int64
		// AllowIncomplete skips the concreteness check, leaving optional
		// fields unset instead of failing.
		AllowIncomplete bool
	}

	// ParseResult is a decoded value and the CUE value it came from.
	ParseResult[T any] struct {
		Value *T
		// Unified lets callers inspect fields T does not carry.
		Unified cue.Value
	}
)

func (s Schema) limit() int64 {
	if s.MaxFileSize > 0 {
		return s.MaxFileSize
	}
	return DefaultMaxFileSize
}

// Decode unifies data with s, validates and decodes the result into T.
// filename prefixes user-facing errors; empty means "<input>".
func Decode[T any](s Schema, data []byte, filename string) (*ParseResult[T], error) {
	if filename == "" {
		filename = "<input>"
	}
	if err := CheckFileSize(int64(len(data)), s.limit(), filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	compiled := ctx.CompileBytes(s.Source)
	if compiled.Err() != nil {
		return nil, fmt.Errorf("internal error: schema does not compile: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(s.Definition))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema has no %s: %w", s.Definition, def.Err())
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), filename)
	}

	unified := def.Unify(user)
	if err := unified.Validate(cue.Concrete(!s.AllowIncomplete)); err != nil {
		return nil, FormatError(err, filename)
	}

	out := new(T)
	if err := unified.Decode(out); err != nil {
		return nil, FormatError(err, filename)
	}
	return &ParseResult[T]{Value: out, Unified: unified}, nil
}

// DecodeFile reads path from fsys and decodes it against s. The size limit
// is checked on the stat before any bytes are read.
func DecodeFile[T any](fsys afero.Fs, s Schema, path string) (*ParseResult[T], error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	if err := CheckFileSize(info.Size(), s.limit(), path); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	return Decode[T](s, data, path)
}
