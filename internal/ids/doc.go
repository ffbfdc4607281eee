// Package ids defines the identifier types shared across the repository
// engine: content digests, repository/file/line identifiers, and the
// single-id tuple that every Change targets.
//
// All types carry stable textual forms (§6): ContentHash and ChangeHash use
// a "C" prefix over base58, RepositoryId uses "R" over base58, FileId and
// LineId use the bare hyphenated uuid form. Older base64url-no-pad
// serializations are accepted on decode for backward compatibility.
package ids
