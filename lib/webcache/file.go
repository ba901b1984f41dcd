package webcache

import (
	"encoding/json"
	"fmt"
	"os"
)

// File is a durable Cache backed by a single JSON object mapping urls to
// document text. The whole file is loaded at open and rewritten on every
// Set; the write amplification is acceptable at the pipeline's write
// frequency and keeps the file consistent after a crash.
type File struct {
	path    string
	entries map[string]string
}

func OpenFile(path string) (*File, error) {
	c := &File{
		path:    path,
		entries: map[string]string{},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(raw, &c.entries)
	if err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", path, err)
	}
	return c, nil
}

func (c *File) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *File) Get(key string) (string, error) {
	content, ok := c.entries[key]
	if !ok {
		return "", fmt.Errorf("key not cached: %s", key)
	}
	return content, nil
}

func (c *File) Set(key, content string) error {
	c.entries[key] = content

	serialized, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, serialized, 0644)
}
