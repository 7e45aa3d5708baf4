package ports

import "context"

// Retriever is the schema-documentation search collaborator. Documents come
// back as opaque text blobs in retrieval order; the pipeline concatenates
// them into the prompt without filtering or re-ranking.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}
