package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainArtifactID = "aisync/artifact-id/v1"
	DomainContent    = "aisync/content/v1"
	DomainTree       = "aisync/tree/v1"
)

// ChecksumPrefix marks the hash algorithm in stored checksums.
const ChecksumPrefix = "sha256:"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + part0 + 0x00 + part1 ...)
// The null separators prevent boundary ambiguity between parts.
func hashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

var folder = cases.Fold()

// NormalizeName canonicalizes an artifact name for identity purposes.
// Unicode is NFC-normalized and case-folded; runs of whitespace and
// underscores collapse to a single hyphen.
func NormalizeName(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	s = folder.String(s)

	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
			continue
		}
		b.WriteRune(r)
		lastHyphen = false
	}
	return strings.TrimSuffix(b.String(), "-")
}

// NewArtifactID computes the stable identity of an artifact.
// Two scans of the same source system, type and (normalized) name always
// produce the same ID, regardless of content.
func NewArtifactID(source SystemID, t ArtifactType, name string) string {
	return hashWithDomain(DomainArtifactID,
		[]byte(source),
		[]byte(t),
		[]byte(NormalizeName(name)),
	)[:32]
}

// Checksum returns the content hash used for drift detection.
func Checksum(content []byte) string {
	return ChecksumPrefix + hashWithDomain(DomainContent, content)
}

// ChecksumFiles hashes a set of files keyed by slash-separated relative path.
// Paths are visited in sorted order so the result is independent of scan order.
func ChecksumFiles(files map[string][]byte) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	parts := make([][]byte, 0, len(paths)*2)
	for _, p := range paths {
		parts = append(parts, []byte(p), files[p])
	}
	return ChecksumPrefix + hashWithDomain(DomainTree, parts...)
}
