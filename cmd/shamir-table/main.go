// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v2"

	"gitlab.com/yawning/shamir-voi/internal/tablegen"
)

var (
	app = kingpin.New("shamir-table", "Fixed-base dual-scalar multiplication table generator")

	configPath  = app.Flag("config", "YAML configuration file.").Short('c').String()
	curve       = app.Flag("curve", "Curve (p256, secp256k1, bn254).").String()
	publicKey   = app.Flag("pubkey", "Public key Q: hex SEC 1 point, or a file with one or a PEM PUBLIC KEY.").String()
	window      = app.Flag("window", "Window width in bits.").Short('w').Int()
	concurrency = app.Flag("concurrency", "Goroutines used to generate the table.").Int()
	logLevel    = app.Flag("log-level", "Log level.").String()

	generate    = app.Command("generate", "Generate and package a table as contract creation code.")
	basePayload = generate.Flag("base", "Runtime code preceding the table: hex, or a file with hex or a compiler artifact.").String()
	output      = generate.Flag("output", "Creation code output file (hex).").Short('o').String()
	manifest    = generate.Flag("manifest", "Manifest output file (YAML).").Short('m').String()

	multiply = app.Command("multiply", "Compute a * G + b * Q with the table, and check it against direct multiplication.")
	scalarA  = multiply.Arg("a", "Scalar a (hex).").Required().String()
	scalarB  = multiply.Arg("b", "Scalar b (hex).").Required().String()

	entry       = app.Command("entry", "Read a table entry out of deployed (runtime) code.")
	codePath    = entry.Arg("code", "File with the runtime code (hex).").Required().String()
	entryIndex  = entry.Arg("index", "Entry index.").Required().Int()
	entryOffset = entry.Flag("offset", "Offset of the table in the runtime code.").Default("1").Int()

	args = os.Args[1:]
)

func main() {
	kingpin.Version("0.0.1")

	command, err := app.Parse(args)
	if err != nil {
		kingpin.Fatalf("parsing arguments: %s. Try --help", err)
		return
	}

	cfg, err := tablegen.LoadConfig(*configPath)
	if err != nil {
		kingpin.Fatalf("%s", err)
		return
	}
	applyFlags(cfg)

	logger, err := cfg.NewLogger()
	if err != nil {
		kingpin.Fatalf("%s", err)
		return
	}
	defer func() { _ = logger.Sync() }()

	switch command {
	case generate.FullCommand():
		m, err := tablegen.Generate(cfg, logger)
		if err != nil {
			logger.Fatal("generate failed", zap.Error(err))
		}
		printYAML(m)

	case multiply.FullCommand():
		res, err := tablegen.Multiply(cfg, *scalarA, *scalarB, logger)
		if err != nil {
			logger.Fatal("multiply failed", zap.Error(err))
		}
		printYAML(res)
		if !res.Match {
			os.Exit(1)
		}

	case entry.FullCommand():
		res, err := tablegen.ReadEntry(cfg.Curve, *codePath, *entryOffset, *entryIndex)
		if err != nil {
			logger.Fatal("entry failed", zap.Error(err))
		}
		printYAML(res)
	}
}

// applyFlags overrides the configuration with the flags that were set.
func applyFlags(cfg *tablegen.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v != 0 {
			*dst = v
		}
	}

	setString(&cfg.Curve, *curve)
	setString(&cfg.PublicKey, *publicKey)
	setString(&cfg.LogLevel, *logLevel)
	setString(&cfg.BasePayload, *basePayload)
	setString(&cfg.Output, *output)
	setString(&cfg.Manifest, *manifest)
	setInt(&cfg.Window, *window)
	setInt(&cfg.Concurrency, *concurrency)
}

func printYAML(v interface{}) {
	b, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to serialize output: %s\n", err)
		os.Exit(1)
	}
	fmt.Print(string(b))
}
