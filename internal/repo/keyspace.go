package repo

import (
	"github.com/solipr/engine/internal/ids"
	"github.com/solipr/engine/internal/kv"
)

const (
	bucketChanges      = "changes"
	bucketHeads        = "heads"
	bucketReverseHeads = "reverse_heads"
	bucketLines        = "lines"
)

func repoKey(rid ids.RepositoryId) string { return string(rid.Bytes()) }

func changesBucket(tx *kv.Tx, rid ids.RepositoryId) (*kv.Bucket, error) {
	return tx.Bucket(repoKey(rid), bucketChanges)
}

func headsBucket(tx *kv.Tx, rid ids.RepositoryId) (*kv.Bucket, error) {
	return tx.Bucket(repoKey(rid), bucketHeads)
}

func reverseHeadsBucket(tx *kv.Tx, rid ids.RepositoryId) (*kv.Bucket, error) {
	return tx.Bucket(repoKey(rid), bucketReverseHeads)
}

func linesBucket(tx *kv.Tx, rid ids.RepositoryId, file ids.FileId) (*kv.Bucket, error) {
	return tx.Bucket(repoKey(rid), bucketLines, string(file.Bytes()))
}
