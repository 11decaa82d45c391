package summary

import "context"

// ObjectStore is the blob-storage collaborator for summary artifacts.
// Put with an existing name overwrites; that is the intended semantics for
// rerunning a window.
type ObjectStore interface {
	Put(ctx context.Context, name string, payload []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}
