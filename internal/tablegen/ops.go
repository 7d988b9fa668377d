// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package tablegen

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	shamir "gitlab.com/yawning/shamir-voi"
	"gitlab.com/yawning/shamir-voi/bytecode"
	"gitlab.com/yawning/shamir-voi/internal/helpers"
)

// MultiplyResult is the result of Multiply, with both the windowed
// table result and the direct scalar multiplication it is checked
// against.
type MultiplyResult struct {
	Table  Coords `yaml:"table"`
	Direct Coords `yaml:"direct"`
	Match  bool   `yaml:"match"`
}

// Multiply computes `a * G + b * Q` with the configured table, and
// with two generic scalar multiplications.
func Multiply(cfg *Config, aHex, bHex string, logger *zap.Logger) (*MultiplyResult, error) {
	a, err := shamir.NewScalarFromHex(aHex)
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: a")
	}
	b, err := shamir.NewScalarFromHex(bHex)
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: b")
	}

	in, err := cfg.LoadInputs()
	if err != nil {
		return nil, err
	}
	tbl, err := cfg.NewTable(in, logger)
	if err != nil {
		return nil, err
	}

	c := in.Curve
	viaTable := tbl.Multiply(a, b)
	direct := c.Add(c.ScalarMult(tbl.P(), a), c.ScalarMult(tbl.Q(), b))

	return &MultiplyResult{
		Table:  newCoords(viaTable),
		Direct: newCoords(direct),
		Match:  shamir.Equal(viaTable, direct),
	}, nil
}

// EntryResult is a single decoded table entry.
type EntryResult struct {
	Index      int    `yaml:"index"`
	Raw        string `yaml:"raw"`
	IsInfinity bool   `yaml:"isInfinity"`
	Point      Coords `yaml:"point"`
}

// ReadEntry reads entry `i` of the table in the hex encoded runtime
// code stored at `path`.  The curve is used to validate the entry.
func ReadEntry(curveName, path string, offset, i int) (*EntryResult, error) {
	c, err := shamir.CurveByName(curveName)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: failed to read code")
	}
	code, err := helpers.DecodeHex(string(raw))
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: malformed code hex")
	}

	b, err := bytecode.ReadEntry(code, offset, i)
	if err != nil {
		return nil, err
	}
	p, err := shamir.DecodePoint(c, b)
	if err != nil {
		return nil, errors.Wrapf(err, "tablegen: entry %d", i)
	}

	return &EntryResult{
		Index:      i,
		Raw:        helpers.EncodeHex(b),
		IsInfinity: p.IsIdentity(),
		Point:      newCoords(p),
	}, nil
}
