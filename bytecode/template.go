// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package bytecode

import (
	"github.com/pkg/errors"

	"gitlab.com/yawning/shamir-voi/internal/helpers"
)

var (
	// ErrLengthOverflow is the error returned when the runtime code does
	// not fit in the template's length field.
	ErrLengthOverflow = errors.New("shamir/bytecode: runtime code too large for length field")

	// ErrInvalidTemplate is the error returned when a template's fields
	// do not fit within its code.
	ErrInvalidTemplate = errors.New("shamir/bytecode: invalid template")
)

// Field is a fixed-width big-endian integer field at a fixed position
// inside a template.
type Field struct {
	Offset int
	Width  int
}

// Max returns the largest value representable by the field.
func (f Field) Max() uint64 {
	if f.Width >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*f.Width) - 1
}

func (f Field) put(dst []byte, v uint64) error {
	if v > f.Max() {
		return errors.Wrapf(ErrLengthOverflow, "%d > %d", v, f.Max())
	}
	for i := f.Width - 1; i >= 0; i-- {
		dst[f.Offset+i] = byte(v)
		v >>= 8
	}
	return nil
}

func (f Field) validate(codeLen int) error {
	if f.Width < 1 || f.Width > 8 || f.Offset < 0 || f.Offset+f.Width > codeLen {
		return errors.Wrapf(ErrInvalidTemplate, "field [%d, %d) of %d-byte code", f.Offset, f.Offset+f.Width, codeLen)
	}
	return nil
}

// Template is the contract creation prologue that gets prepended to
// the runtime code.  When executed, it MUST copy the `RuntimeLength`
// bytes that follow it (starting at `RuntimeOffset`) into memory and
// return them, so that they become the deployed code.
type Template struct {
	// Code is the prologue, with the fields left as placeholders.
	Code []byte

	// RuntimeLength is the field that receives the length of the
	// runtime code.
	RuntimeLength Field

	// RuntimeOffset is the field that receives the offset of the
	// runtime code in the creation code (ie: `len(Code)`).
	RuntimeOffset Field
}

// DefaultTemplate is a solc-style constructor that rejects value
// transfers and then returns everything after itself:
//
//	0x00  PUSH1 0x80 PUSH1 0x40 MSTORE
//	0x05  CALLVALUE DUP1 ISZERO PUSH2 0x0010 JUMPI
//	0x0c  PUSH1 0x00 DUP1 REVERT
//	0x10  JUMPDEST POP
//	0x12  PUSH2 <runtime length> DUP1
//	0x16  PUSH2 <runtime offset> PUSH1 0x00 CODECOPY
//	0x1c  PUSH1 0x00 RETURN
//	0x1f  STOP
var DefaultTemplate = &Template{
	Code:          helpers.MustBytesFromHex("608060405234801561001057600080fd5b50610000806100006000396000f300"),
	RuntimeLength: Field{Offset: 0x13, Width: 2},
	RuntimeOffset: Field{Offset: 0x17, Width: 2},
}

// Validate checks that the template's fields are within its code, and
// do not overlap.
func (t *Template) Validate() error {
	if len(t.Code) == 0 {
		return errors.Wrap(ErrInvalidTemplate, "empty code")
	}
	if err := t.RuntimeLength.validate(len(t.Code)); err != nil {
		return err
	}
	if err := t.RuntimeOffset.validate(len(t.Code)); err != nil {
		return err
	}

	a, b := t.RuntimeLength, t.RuntimeOffset
	if a.Offset < b.Offset+b.Width && b.Offset < a.Offset+a.Width {
		return errors.Wrap(ErrInvalidTemplate, "overlapping fields")
	}

	return nil
}

// MaxRuntimeLength returns the largest runtime code length that the
// template can describe.
func (t *Template) MaxRuntimeLength() uint64 {
	return t.RuntimeLength.Max()
}

// prologue returns a copy of the template's code with the fields set
// for a runtime code of `runtimeLen` bytes.
func (t *Template) prologue(runtimeLen int) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	b := append([]byte{}, t.Code...)
	if err := t.RuntimeLength.put(b, uint64(runtimeLen)); err != nil {
		return nil, err
	}
	if err := t.RuntimeOffset.put(b, uint64(len(t.Code))); err != nil {
		return nil, errors.Wrap(ErrInvalidTemplate, "prologue too large for offset field")
	}

	return b, nil
}
