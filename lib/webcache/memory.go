package webcache

import "fmt"

// Memory is an ephemeral map-backed Cache for short-lived invocations.
type Memory struct {
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]string{}}
}

func (c *Memory) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

func (c *Memory) Get(key string) (string, error) {
	content, ok := c.entries[key]
	if !ok {
		return "", fmt.Errorf("key not cached: %s", key)
	}
	return content, nil
}

func (c *Memory) Set(key, content string) error {
	c.entries[key] = content
	return nil
}
