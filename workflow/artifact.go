package workflow

import (
	"fmt"
	"sync"
)

// Artifact is one named payload collected by a Capture step.
type Artifact struct {
	Name    string
	Payload []byte
}

// ArtifactCollector receives artifacts as Capture steps run. Record
// returns the name the artifact was actually stored under, which may
// differ from the requested name if it collided with an earlier one.
type ArtifactCollector interface {
	Record(name string, payload []byte) (storedName string)
}

// InMemoryArtifactCollector is the default ArtifactCollector. A
// duplicate name is disambiguated with a numeric suffix
// ("name", "name-2", "name-3", ...) rather than overwriting the
// earlier artifact.
type InMemoryArtifactCollector struct {
	mu        sync.Mutex
	artifacts []Artifact
	seen      map[string]int
}

// NewInMemoryArtifactCollector returns an empty collector.
func NewInMemoryArtifactCollector() *InMemoryArtifactCollector {
	return &InMemoryArtifactCollector{seen: make(map[string]int)}
}

func (c *InMemoryArtifactCollector) Record(name string, payload []byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := name
	if n, ok := c.seen[name]; ok {
		n++
		stored = fmt.Sprintf("%s-%d", name, n+1)
		c.seen[name] = n
	} else {
		c.seen[name] = 0
	}

	c.artifacts = append(c.artifacts, Artifact{Name: stored, Payload: payload})
	return stored
}

// Artifacts returns a copy of the recorded artifacts in recording
// order.
func (c *InMemoryArtifactCollector) Artifacts() []Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Artifact, len(c.artifacts))
	copy(out, c.artifacts)
	return out
}
