package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique names. The sequence is seeded, so
// the same inputs always produce the same names.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) init() {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
}

func (rng *RandomNameGenerator) RandomName() string {
	rng.init()
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := (*rng)[name]; !exists {
			(*rng)[name] = struct{}{}
			return name
		}
	}
}

// UniqueName keeps preferred when it is non-empty and not taken yet.
func (rng *RandomNameGenerator) UniqueName(preferred string) string {
	rng.init()
	if preferred != "" {
		if _, exists := (*rng)[preferred]; !exists {
			(*rng)[preferred] = struct{}{}
			return preferred
		}
	}
	return rng.RandomName()
}
