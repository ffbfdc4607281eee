// Package repo implements the repository engine (§4.4): the
// per-repository transactional API built on internal/kv that applies and
// unapplies Changes, maintains head sets per SingleId, and indexes
// existing lines per file.
//
// Keyspace (one top-level bucket per repository, per §4.4):
//
//	<rid>/changes/<change_hash>       -> encoded Change
//	<rid>/heads/<single_id>           -> encoded set<ChangeHash>
//	<rid>/reverse_heads/<change_hash> -> encoded set<ChangeHash>
//	<rid>/lines/<file_id>/<line_id>   -> zero-length marker
//
// Empty sets are never stored; absence of a key means the empty set
// (§6). All mutation happens inside the kv.Tx that a WriteTx wraps, so
// WriteTx.Apply and WriteTx.Unapply calls compose with other repository
// mutations inside one underlying bbolt write transaction.
package repo
