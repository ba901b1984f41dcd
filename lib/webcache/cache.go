// Package webcache stores raw fetched documents keyed by url so that a
// re-run of the scraping pipeline never refetches a page it already has.
// There is no eviction: the cache is primed once and reused across runs.
package webcache

// Cache maps a resource url to the raw document text retrieved from it.
type Cache interface {
	Has(key string) bool
	Get(key string) (string, error)
	Set(key, content string) error
}
