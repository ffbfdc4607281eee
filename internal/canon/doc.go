// Package canon provides the canonical encodings used for content
// addressing and CLI output across the engine.
//
// Two encodings live here, grounded on the same domain-separated hashing
// discipline but serving different contracts (§4.3, §6):
//
//   - A binary, length-prefixed, little-endian, tagged-enum encoding used
//     to serialize Change records and head-sets for hashing and on-disk
//     storage. This is the encoding §6 requires to be "chosen once and
//     held stable".
//   - A canonical JSON encoding (RFC 8785: sorted UTF-16 keys, NFC string
//     normalization, no HTML escaping) giving deterministic
//     byte-for-byte output across runs. Nothing in this module calls it
//     outside its tests; the CLI's --format json output is written with
//     encoding/json.
package canon
