// Package kv implements the transactional key-value store contract
// (§4.2): one writer, many concurrent readers, snapshot reads, ordered
// prefix iteration, explicit commit or implicit abort.
//
// The teacher's own storage layer is SQL-shaped (a single *sql.DB with ad
// hoc queries); this contract is a bucket/cursor/view-update model
// instead, so it is implemented on go.etcd.io/bbolt (grounded on the
// bolt wrapper idiom in the broader example pack), which natively
// provides single-writer/many-reader MVCC snapshots and ordered
// byte-key iteration - a much closer fit than reshaping SQL rows into a
// byte-keyed ordered map would be. The teacher contributes the
// surrounding idiom instead: wrapped errors and deterministic iteration
// order. Open performs no schema-version check.
package kv
