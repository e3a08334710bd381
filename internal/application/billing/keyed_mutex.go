package billing

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

const keyedMutexShards = 256

// keyedMutex serializes quota work per tenant without serializing
// different tenants on each other. A fixed shard array keeps memory
// constant no matter how many tenants pass through; tenants that hash
// to the same shard contend, which is harmless for correctness.
type keyedMutex struct {
	shards [keyedMutexShards]sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{}
}

func (k *keyedMutex) shard(key uuid.UUID) *sync.Mutex {
	h := fnv.New32a()
	h.Write(key[:])
	return &k.shards[h.Sum32()%keyedMutexShards]
}

// Lock acquires the shard for a key
func (k *keyedMutex) Lock(key uuid.UUID) {
	k.shard(key).Lock()
}

// Unlock releases the shard for a key
func (k *keyedMutex) Unlock(key uuid.UUID) {
	k.shard(key).Unlock()
}
