package canon

import "crypto/sha256"

// HashWithDomain computes SHA-256(domain || 0x00 || data). The null
// separator prevents a domain string and the start of data from being
// ambiguously concatenated (e.g. domain "ab" + data "c" vs domain "a" +
// data "bc"). Change hashes (internal/change) are computed through this
// helper under their own domain string. Registry content hashes are plain
// SHA-256 of the blob bytes, and conflict/cycle marker uuids
// (internal/ovg) come from uuid.NewHash under their own namespace; neither
// goes through this helper.
func HashWithDomain(domain string, data []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
