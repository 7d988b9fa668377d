// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package bytecode

import (
	"github.com/pkg/errors"

	shamir "gitlab.com/yawning/shamir-voi"
)

// ErrEntryOutOfRange is the error returned when an entry lies outside
// of the code.
var ErrEntryOutOfRange = errors.New("shamir/bytecode: entry out of range")

// ReadEntry returns the EntrySize-byte serialized entry `i` of a table
// that starts at `offset` in `code`, as retrieved from a deployed
// contract.  The returned slice aliases `code`.
func ReadEntry(code []byte, offset, i int) ([]byte, error) {
	if offset < 0 || i < 0 {
		return nil, errors.Wrapf(ErrEntryOutOfRange, "offset %d, entry %d", offset, i)
	}

	start := offset + i*shamir.EntrySize
	end := start + shamir.EntrySize
	if end > len(code) {
		return nil, errors.Wrapf(ErrEntryOutOfRange, "[%d, %d) of %d-byte code", start, end, len(code))
	}

	return code[start:end:end], nil
}

// ReadPoint decodes entry `i` of a table that starts at `offset` in
// `code`, on the curve `c`.
func ReadPoint(c shamir.Curve, code []byte, offset, i int) (shamir.Point, error) {
	b, err := ReadEntry(code, offset, i)
	if err != nil {
		return nil, err
	}
	return shamir.DecodePoint(c, b)
}

// DecodeTable reconstructs a table with window width `w` on `c`, that
// starts at `offset` in the runtime code `code`.
func DecodeTable(c shamir.Curve, w int, code []byte, offset int, opts ...shamir.TableOption) (*shamir.Table, error) {
	if w < 1 || w > shamir.MaxWindowWidth {
		return nil, errors.Wrapf(shamir.ErrInvalidWindowWidth, "%d", w)
	}

	end := offset + (1<<(2*w))*shamir.EntrySize
	if offset < 0 || end > len(code) {
		return nil, errors.Wrapf(ErrEntryOutOfRange, "table [%d, %d) of %d-byte code", offset, end, len(code))
	}

	return shamir.DecodeTable(c, w, code[offset:end], opts...)
}
