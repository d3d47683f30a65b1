package cache

import "fmt"

// Payload is a sealed interface for cache operations.
type Payload interface {
	PartitionKey() string
	payload()
}

type Get[K comparable] struct {
	Key K
}

func (p Get[K]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p Get[K]) payload()             {}

type Put[K comparable, V any] struct {
	Key   K
	Value V
}

func (p Put[K, V]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p Put[K, V]) payload()             {}

type Remove[K comparable] struct {
	Key K
}

func (p Remove[K]) PartitionKey() string { return fmt.Sprintf("%v", p.Key) }
func (p Remove[K]) payload()             {}

type lookup[V any] struct {
	value V
	found bool
}
