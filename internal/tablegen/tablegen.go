// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package tablegen

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	shamir "gitlab.com/yawning/shamir-voi"
	"gitlab.com/yawning/shamir-voi/bytecode"
	"gitlab.com/yawning/shamir-voi/internal/helpers"
	"gitlab.com/yawning/shamir-voi/pubkey"
)

// Manifest describes a generated artifact, so that the consumer can be
// configured without re-parsing the artifact.
type Manifest struct {
	Curve       string `yaml:"curve"`
	Window      int    `yaml:"window"`
	Entries     int    `yaml:"entries"`
	EntrySize   int    `yaml:"entrySize"`
	Offset      int    `yaml:"offset"`
	CodeOffset  int    `yaml:"codeOffset"`
	CodeSize    int    `yaml:"codeSize"`
	RuntimeSize int    `yaml:"runtimeSize"`
	CodeHash    string `yaml:"codeHash"`
	Digest      string `yaml:"digest"`
	P           Coords `yaml:"p"`
	Q           Coords `yaml:"q"`
	Artifact    string `yaml:"artifact,omitempty"`
}

// Coords is a point's affine coordinates, as hex.
type Coords struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
}

func newCoords(p shamir.Point) Coords {
	x, y := p.Coordinates()
	return Coords{
		X: helpers.EncodeHex(x[:]),
		Y: helpers.EncodeHex(y[:]),
	}
}

// Inputs are the parsed generation inputs.
type Inputs struct {
	Curve       shamir.Curve
	Q           shamir.Point
	BasePayload []byte
}

// LoadInputs resolves the curve, public key, and base payload named by
// the configuration.
func (cfg *Config) LoadInputs() (*Inputs, error) {
	c, err := shamir.CurveByName(cfg.Curve)
	if err != nil {
		return nil, err
	}

	c, q, err := loadPublicKey(c, cfg.PublicKey)
	if err != nil {
		return nil, err
	}

	base, err := loadBasePayload(cfg.BasePayload)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		Curve:       c,
		Q:           q,
		BasePayload: base,
	}, nil
}

// NewTable generates the table `G, Q` for the inputs.
func (cfg *Config) NewTable(in *Inputs, logger *zap.Logger) (*shamir.Table, error) {
	opts := []shamir.TableOption{shamir.WithLogger(logger)}
	if cfg.Concurrency > 0 {
		opts = append(opts, shamir.WithConcurrency(cfg.Concurrency))
	}

	return shamir.NewTable(in.Curve, in.Curve.Generator(), in.Q, cfg.Window, opts...)
}

// Generate builds and packages the table, writes the creation code
// (as hex) and the manifest, and returns the manifest.
func Generate(cfg *Config, logger *zap.Logger) (*Manifest, error) {
	in, err := cfg.LoadInputs()
	if err != nil {
		return nil, err
	}

	tbl, err := cfg.NewTable(in, logger)
	if err != nil {
		return nil, err
	}

	opts := []bytecode.Option{bytecode.WithLogger(logger)}
	if in.BasePayload != nil {
		opts = append(opts, bytecode.WithBasePayload(in.BasePayload))
	}
	artifact, err := bytecode.Pack(tbl, opts...)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Curve:       tbl.Curve().Name(),
		Window:      tbl.WindowWidth(),
		Entries:     artifact.Len(),
		EntrySize:   shamir.EntrySize,
		Offset:      artifact.Offset(),
		CodeOffset:  artifact.CodeOffset(),
		CodeSize:    len(artifact.Bytes()),
		RuntimeSize: len(artifact.RuntimeCode()),
		CodeHash:    helpers.EncodeHex(artifact.CodeHash()),
		Digest:      helpers.EncodeHex(tbl.Digest()),
		P:           newCoords(tbl.P()),
		Q:           newCoords(tbl.Q()),
	}

	if cfg.Output != "" {
		if err = os.WriteFile(cfg.Output, []byte(helpers.EncodeHex(artifact.Bytes())+"\n"), 0o600); err != nil {
			return nil, errors.Wrap(err, "tablegen: failed to write artifact")
		}
		m.Artifact = cfg.Output
	}
	if cfg.Manifest != "" {
		b, err := yaml.Marshal(m)
		if err != nil {
			return nil, errors.Wrap(err, "tablegen: failed to serialize manifest")
		}
		if err = os.WriteFile(cfg.Manifest, b, 0o600); err != nil {
			return nil, errors.Wrap(err, "tablegen: failed to write manifest")
		}
	}

	logger.Info("generated table artifact",
		zap.String("curve", m.Curve),
		zap.Int("window", m.Window),
		zap.Int("offset", m.Offset),
		zap.Int("runtime_size", m.RuntimeSize),
		zap.String("artifact", cfg.Output),
	)

	return m, nil
}

// ReadManifest reads a manifest written by Generate.
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: failed to read manifest")
	}

	var m Manifest
	if err = yaml.UnmarshalStrict(b, &m); err != nil {
		return nil, errors.Wrap(err, "tablegen: failed to parse manifest")
	}
	return &m, nil
}

// loadPublicKey parses `s`, which is either a hex encoded point, or the
// path to a file with a hex encoded point or a PEM `PUBLIC KEY`.
func loadPublicKey(c shamir.Curve, s string) (shamir.Curve, shamir.Point, error) {
	if s == "" {
		return nil, nil, errors.New("tablegen: no public key")
	}

	raw := []byte(s)
	if b, err := os.ReadFile(s); err == nil {
		raw = b
	}

	if bytes.Contains(raw, []byte("-----BEGIN")) {
		pc, q, err := pubkey.ParsePEM(raw)
		if err != nil {
			return nil, nil, err
		}
		if pc.Name() != c.Name() {
			return nil, nil, errors.Errorf("tablegen: public key is on '%s', configured curve is '%s'", pc.Name(), c.Name())
		}
		return pc, q, nil
	}

	b, err := helpers.DecodeHex(string(raw))
	if err != nil {
		return nil, nil, errors.Wrap(err, "tablegen: malformed public key hex")
	}
	q, err := pubkey.ParseSEC1(c, b)
	if err != nil {
		return nil, nil, err
	}
	return c, q, nil
}

// loadBasePayload parses `s`, which is either hex encoded runtime code,
// or the path to a file with hex encoded runtime code, or a compiler
// artifact JSON file.  An empty `s` returns nil.
func loadBasePayload(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	raw := []byte(s)
	if b, err := os.ReadFile(s); err == nil {
		raw = bytes.TrimSpace(b)
	}

	if len(raw) > 0 && raw[0] == '{' {
		var artifact struct {
			DeployedBytecode string `json:"deployedBytecode"`
		}
		if err := json.Unmarshal(raw, &artifact); err != nil {
			return nil, errors.Wrap(err, "tablegen: malformed compiler artifact")
		}
		if artifact.DeployedBytecode == "" {
			return nil, errors.New("tablegen: compiler artifact has no deployedBytecode")
		}
		raw = []byte(artifact.DeployedBytecode)
	}

	b, err := helpers.DecodeHex(string(raw))
	if err != nil {
		return nil, errors.Wrap(err, "tablegen: malformed base payload hex")
	}
	return b, nil
}
