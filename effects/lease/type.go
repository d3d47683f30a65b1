package lease

// Payload is a sealed interface for lease operations.
type Payload interface {
	PartitionKey() string
	sealedInterface()
}

type register struct {
	Key       string
	NumOwners int
}

func (p register) PartitionKey() string { return p.Key }
func (register) sealedInterface()       {}

type deregister struct {
	Key string
}

func (p deregister) PartitionKey() string { return p.Key }
func (deregister) sealedInterface()       {}

// lookup fetches the permit channel of a key; acquiring and releasing happen
// on the caller's goroutine so a waiting owner never blocks a handler worker.
type lookup struct {
	Key string
}

func (p lookup) PartitionKey() string { return p.Key }
func (lookup) sealedInterface()       {}
