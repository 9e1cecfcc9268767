package store

import "sync"

const lockShards = 64

// PlayerLocks serializes read-modify-write cycles per player. Handlers and
// background sweeps take the lock at the entry point; services below them
// stay lock-free, which keeps one logical thread of execution per player.
type PlayerLocks struct {
	shards [lockShards]sync.Mutex
}

func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{}
}

func (l *PlayerLocks) Lock(playerID int64) func() {
	m := &l.shards[uint64(playerID)%lockShards]
	m.Lock()
	return m.Unlock
}
