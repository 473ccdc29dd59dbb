package system

import (
	"math/rand/v2"
	"time"
)

func seeded(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
}
