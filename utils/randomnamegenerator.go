package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out names it never returned before.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) RandomName() string {
	return rng.RandomNameExcept(nil)
}

// RandomNameExcept also skips every name for which taken returns true.
func (rng *RandomNameGenerator) RandomNameExcept(taken func(string) bool) string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := (*rng)[name]; exists {
			continue
		}
		(*rng)[name] = struct{}{}
		if taken != nil && taken(name) {
			continue
		}
		return name
	}
}
