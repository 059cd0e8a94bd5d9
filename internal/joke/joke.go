// Package joke hands out lasagna jokes.
package joke

import "math/rand/v2"

var jokes = [...]string{
	"Why did the lasagna go to the doctor? Because it was feeling a little saucy!",
	"What do you call a lasagna that's been left out too long? A cold pasta!",
	"Why did the lasagna break up with the spaghetti? It was tired of being layered!",
	"What did the lasagna say to the garlic bread? 'You're the best thing since sliced bread!'",
	"Why did the lasagna go to therapy? It had too many layers to deal with!",
	"What's a lasagna's favorite dance? The layer shuffle!",
	"Why did the lasagna get promoted? Because it always rises to the occasion!",
	"What do you call a lasagna that's been in the oven too long? Well-done!",
	"Why did the lasagna go to the gym? To work on its layers!",
	"What's a lasagna's favorite movie? The Italian Job!",
}

// Next returns a joke chosen uniformly at random.
func Next() string {
	return jokes[rand.IntN(len(jokes))]
}

// All returns a copy of every joke.
func All() []string {
	out := make([]string, len(jokes))
	copy(out, jokes[:])
	return out
}
