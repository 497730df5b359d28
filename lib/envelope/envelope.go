// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package envelope wraps a treebuf document in a checksummed container
// so that corruption in storage or transit is detected before the
// document is decoded.
//
// A sealed document is laid out as:
//
//	magic    7 bytes  "TREEBUF"
//	version  1 byte   1
//	digest  32 bytes  BLAKE3 keyed hash of the payload
//	payload           the treebuf document
//
// The digest key is a domain name, so documents sealed for one purpose
// do not verify under another. The magic cannot be mistaken for a bare
// document: no root tag has the value of 'T'.
//
// The digest detects accidental damage. It is not a signature: anyone
// who knows the domain name can produce a valid envelope.
package envelope

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
)

const (
	// Version is the envelope layout written by Seal.
	Version = 1

	// HeaderSize is the number of bytes before the payload.
	HeaderSize = len(magic) + 1 + DigestSize

	// DigestSize is the length of a BLAKE3 digest.
	DigestSize = 32

	// DefaultDomainName keys the digest when no domain is configured.
	DefaultDomainName = "treebuf.document"
)

const magic = "TREEBUF"

var (
	// ErrNotSealed is returned by Open for data that does not start
	// with the envelope magic.
	ErrNotSealed = errors.New("envelope: data is not sealed")

	// ErrUnsupportedVersion is returned for an envelope written by a
	// newer layout.
	ErrUnsupportedVersion = errors.New("envelope: unsupported version")

	// ErrDigestMismatch is returned when the payload does not hash to
	// the recorded digest under the given domain.
	ErrDigestMismatch = errors.New("envelope: digest mismatch")

	// ErrInvalidDomain is returned by NewDomain for names that are
	// empty, longer than 32 bytes, or not printable ASCII.
	ErrInvalidDomain = errors.New("envelope: invalid domain name")
)

// Digest is a BLAKE3 digest of a payload.
type Digest [DigestSize]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Domain is a BLAKE3 key: the ASCII domain name zero-padded to 32
// bytes. Readable keys stay recognizable in hex dumps.
type Domain struct {
	name string
	key  [32]byte
}

// NewDomain builds the key for a domain name.
func NewDomain(name string) (Domain, error) {
	if name == "" || len(name) > 32 {
		return Domain{}, fmt.Errorf("%w: %q must be 1 to 32 bytes", ErrInvalidDomain, name)
	}
	for index := range len(name) {
		if name[index] < 0x21 || name[index] > 0x7e {
			return Domain{}, fmt.Errorf("%w: %q contains byte 0x%02x", ErrInvalidDomain, name, name[index])
		}
	}
	domain := Domain{name: name}
	copy(domain.key[:], name)
	return domain, nil
}

// DefaultDomain returns the domain for DefaultDomainName.
func DefaultDomain() Domain {
	domain, err := NewDomain(DefaultDomainName)
	if err != nil {
		panic("envelope: default domain rejected: " + err.Error())
	}
	return domain
}

// Name returns the domain name.
func (d Domain) Name() string { return d.name }

// Sum computes the keyed digest of payload.
func (d Domain) Sum(payload []byte) Digest {
	hasher, err := blake3.NewKeyed(d.key[:])
	if err != nil {
		panic("envelope: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// IsSealed reports whether data starts with the envelope magic. It
// does not verify the digest.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(magic))
}

// Seal returns payload wrapped in an envelope keyed by domain.
func Seal(payload []byte, domain Domain) []byte {
	sealed := make([]byte, 0, HeaderSize+len(payload))
	sealed = append(sealed, magic...)
	sealed = append(sealed, Version)
	digest := domain.Sum(payload)
	sealed = append(sealed, digest[:]...)
	return append(sealed, payload...)
}

// Open verifies an envelope and returns its payload, which aliases
// data.
func Open(data []byte, domain Domain) ([]byte, error) {
	if !IsSealed(data) {
		return nil, ErrNotSealed
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: header truncated at %d of %d bytes", ErrNotSealed, len(data), HeaderSize)
	}
	if version := data[len(magic)]; version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var recorded Digest
	copy(recorded[:], data[len(magic)+1:HeaderSize])
	payload := data[HeaderSize:]
	if computed := domain.Sum(payload); computed != recorded {
		return nil, fmt.Errorf("%w: domain %q: recorded %s, computed %s", ErrDigestMismatch, domain.name, recorded, computed)
	}
	return payload, nil
}
