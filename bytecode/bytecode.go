// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package bytecode packages serialized tables into EVM contract creation
// code, such that the deployed contract's code is the table, and any
// entry can be read (eg: with `EXTCODECOPY`) at a fixed offset.
package bytecode

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	shamir "gitlab.com/yawning/shamir-voi"
	"gitlab.com/yawning/shamir-voi/internal/disalloweq"
)

// MaxCodeSize is the EIP-170 limit on the size of deployed code.
const MaxCodeSize = 24576

// DefaultBasePayload is the runtime code placed before the table by
// default: a lone `STOP`, so that calling the deployed table is a no-op.
var DefaultBasePayload = []byte{0x00}

// Artifact is a packaged table, as EVM contract creation code.
type Artifact struct {
	_ disalloweq.DisallowEqual

	code       []byte
	runtimeOff int // Start of the runtime code in code.
	offset     int // Start of the table in the runtime code.
	numEntries int
}

// Option is an option for Pack.
type Option func(*packOptions)

type packOptions struct {
	template *Template
	base     []byte
	logger   *zap.Logger
}

// WithTemplate sets the creation prologue.  The default is
// DefaultTemplate.
func WithTemplate(t *Template) Option {
	return func(opts *packOptions) {
		opts.template = t
	}
}

// WithBasePayload sets the runtime code that precedes the table, such
// as a compiled contract's `deployedBytecode`.  The default is
// DefaultBasePayload.
func WithBasePayload(b []byte) Option {
	return func(opts *packOptions) {
		opts.base = b
	}
}

// WithLogger sets the logger.  The default is to not log.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *packOptions) {
		opts.logger = logger
	}
}

// Pack packages `tbl` as `prologue || base || table` creation code.
// The table starts at Artifact.Offset() in the deployed (runtime) code.
func Pack(tbl *shamir.Table, opts ...Option) (*Artifact, error) {
	o := &packOptions{
		template: DefaultTemplate,
		base:     DefaultBasePayload,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := o.template.Validate(); err != nil {
		return nil, err
	}

	baseLen := len(o.base)
	encodedLen := tbl.Len() * shamir.EntrySize
	totalLen := baseLen + encodedLen

	if uint64(totalLen) > o.template.MaxRuntimeLength() {
		return nil, errors.Wrapf(ErrLengthOverflow, "%d-byte runtime code (base %d, table %d)", totalLen, baseLen, encodedLen)
	}

	prologue, err := o.template.prologue(totalLen)
	if err != nil {
		return nil, err
	}

	code := make([]byte, 0, len(prologue)+totalLen)
	code = append(code, prologue...)
	code = append(code, o.base...)
	code = append(code, tbl.Bytes()...)

	if totalLen > MaxCodeSize {
		o.logger.Warn("runtime code exceeds the EIP-170 limit",
			zap.Int("size", totalLen),
			zap.Int("limit", MaxCodeSize),
		)
	}
	o.logger.Debug("packed table",
		zap.String("curve", tbl.Curve().Name()),
		zap.Int("entries", tbl.Len()),
		zap.Int("code_size", len(code)),
		zap.Int("offset", baseLen),
	)

	return &Artifact{
		code:       code,
		runtimeOff: len(prologue),
		offset:     baseLen,
		numEntries: tbl.Len(),
	}, nil
}

// Bytes returns a copy of the contract creation code.
func (a *Artifact) Bytes() []byte {
	return append([]byte{}, a.code...)
}

// RuntimeCode returns a copy of the code that the contract will have
// once deployed.
func (a *Artifact) RuntimeCode() []byte {
	return append([]byte{}, a.code[a.runtimeOff:]...)
}

// Offset returns the byte offset of the first table entry in the
// runtime code.  Entry `i` occupies `[Offset() + i * 64, Offset() +
// (i + 1) * 64)`.
func (a *Artifact) Offset() int {
	return a.offset
}

// CodeOffset returns the byte offset of the first table entry in the
// creation code.
func (a *Artifact) CodeOffset() int {
	return a.runtimeOff + a.offset
}

// Len returns the number of table entries.
func (a *Artifact) Len() int {
	return a.numEntries
}

// Entry returns a copy of the serialized entry `i`.
func (a *Artifact) Entry(i int) ([]byte, error) {
	if i < 0 || i >= a.numEntries {
		return nil, errors.Wrapf(ErrEntryOutOfRange, "%d of %d", i, a.numEntries)
	}
	b, err := ReadEntry(a.code[a.runtimeOff:], a.offset, i)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

// CodeHash returns the Keccak-256 digest of the runtime code, which is
// what `EXTCODEHASH` returns for the deployed contract.
func (a *Artifact) CodeHash() []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(a.code[a.runtimeOff:])
	return h.Sum(nil)
}
