package typedesc

import "github.com/google/uuid"

// Guid is a type's globally unique identity, a 16-byte hash of its
// canonical textual form (spec.md section 3). Two TypeDescriptors with
// the same canonical form — whether declared once or independently in two
// otherwise-unrelated places — compare equal.
//
// Guid aliases uuid.UUID so it is directly comparable, usable as a map
// key, and printable without any extra plumbing; the derivation itself
// (NewGuid) is ours, not borrowed from the UUID spec's namespace scheme
// beyond its hashing machinery.
type Guid = uuid.UUID

// guidNamespace seeds the SHA-1 derivation in NewGuid. It has no meaning
// beyond giving every canonical form a stable, private hashing domain, the
// way RFC 4122 namespaces do for uuid.NewSHA1.
var guidNamespace = uuid.MustParse("a33c1a9e-eb1f-4e6c-8c2f-6c2d9f6a6b4f")

// NewGuid derives a type's Guid from the canonical textual form of its
// declaration (e.g. a fully-qualified name plus a stable rendering of its
// field list). Identical canonical forms always yield identical Guids;
// this is the hashing half of spec.md section 3's "derived from a
// canonical textual form ... two structurally compatible but
// independently declared types share a Guid iff their canonical forms
// match".
func NewGuid(canonicalForm string) Guid {
	return uuid.NewSHA1(guidNamespace, []byte(canonicalForm))
}
