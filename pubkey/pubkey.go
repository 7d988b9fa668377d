// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

// Package pubkey parses the public keys that tables are built for.
package pubkey

import (
	stdasn1 "encoding/asn1"
	"encoding/pem"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	shamir "gitlab.com/yawning/shamir-voi"
)

var (
	oidEcPublicKey = stdasn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidP256        = stdasn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSecp256k1   = stdasn1.ObjectIdentifier{1, 3, 132, 0, 10}

	errMalformedSEC1 = errors.New("shamir/pubkey: malformed point encoding")
)

const prefixUncompressed = 0x04

// ParseSEC1 parses a public key on `c`, encoded either as an
// uncompressed SEC 1, Version 2.0, Section 2.3.3 point
// (`0x04 || X || Y`), or as the bare `X || Y` coordinates.  The point
// at infinity is rejected.
func ParseSEC1(c shamir.Curve, data []byte) (shamir.Point, error) {
	var xy []byte
	switch len(data) {
	case 1 + 2*shamir.CoordSize:
		if data[0] != prefixUncompressed {
			return nil, errMalformedSEC1
		}
		xy = data[1:]
	case 2 * shamir.CoordSize:
		xy = data
	default:
		return nil, errors.Wrapf(errMalformedSEC1, "%d bytes", len(data))
	}

	p, err := c.NewPoint(xy[:shamir.CoordSize], xy[shamir.CoordSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "shamir/pubkey: curve '%s'", c.Name())
	}
	return p, nil
}

// ParseSPKI parses a DER encoded SubjectPublicKeyInfo containing an
// ecPublicKey on either P-256 or secp256k1, as specified in SEC 1,
// Version 2.0, Appendix C.3.  Only named curves are supported.
func ParseSPKI(data []byte) (shamir.Curve, shamir.Point, error) {
	var (
		inner     cryptobyte.String
		algorithm cryptobyte.String

		subjectPublicKey       stdasn1.BitString
		oidAlgorithm, oidCurve stdasn1.ObjectIdentifier
	)

	input := cryptobyte.String(data)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1(&algorithm, asn1.SEQUENCE) ||
		!inner.ReadASN1BitString(&subjectPublicKey) ||
		!inner.Empty() ||
		!algorithm.ReadASN1ObjectIdentifier(&oidAlgorithm) ||
		!algorithm.ReadASN1ObjectIdentifier(&oidCurve) ||
		!algorithm.Empty() {
		return nil, nil, errors.New("shamir/pubkey: malformed ASN.1 Subject Public Key Info")
	}

	if !oidAlgorithm.Equal(oidEcPublicKey) {
		return nil, nil, errors.New("shamir/pubkey: algorithm is not ecPublicKey")
	}

	var c shamir.Curve
	switch {
	case oidCurve.Equal(oidP256):
		c = shamir.P256()
	case oidCurve.Equal(oidSecp256k1):
		c = shamir.Secp256k1()
	default:
		return nil, nil, errors.Errorf("shamir/pubkey: unsupported named curve %s", oidCurve)
	}

	p, err := ParseSEC1(c, subjectPublicKey.RightAlign())
	if err != nil {
		return nil, nil, err
	}
	return c, p, nil
}

// ParsePEM parses the first `PUBLIC KEY` PEM block in `data`, with
// ParseSPKI.
func ParsePEM(data []byte) (shamir.Curve, shamir.Point, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, nil, errors.New("shamir/pubkey: no PUBLIC KEY PEM block")
		}
		if block.Type == "PUBLIC KEY" {
			return ParseSPKI(block.Bytes)
		}
	}
}
