package feed

import "math/rand/v2"

// Palette holds the accent colors assigned to feed posts.
var Palette = []string{"#3b82f6", "#ef4444", "#22c55e", "#a855f7", "#f97316", "#14b8a6"}

func randomColor() string {
	return Palette[rand.IntN(len(Palette))]
}
