package redisstore

import (
	"math/rand"
	"sync"
	"time"
)

const idChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

/*
idGenerator draws random node IDs and is safe for concurrent use.

It keeps its own clock-seeded source instead of the generator a forest is
trained with: that one may be seeded, and runs sharing a seed and a key
prefix would otherwise draw the same IDs. Collisions left are resolved by
Create retrying on SetNX.
*/
type idGenerator struct {
	lock   sync.Mutex
	rnd    *rand.Rand
	length int
}

func newIDGenerator(seed int64, length int) *idGenerator {
	return &idGenerator{rnd: rand.New(rand.NewSource(seed)), length: length}
}

func newClockIDGenerator() *idGenerator {
	return newIDGenerator(time.Now().UnixNano(), idLength)
}

func (g *idGenerator) next() string {
	g.lock.Lock()
	defer g.lock.Unlock()
	id := make([]byte, g.length)
	for i := range id {
		id[i] = idChars[g.rnd.Intn(len(idChars))]
	}
	return string(id)
}
