package model

type ReactionKind string

const (
	ReactionLike  ReactionKind = "like"
	ReactionLove  ReactionKind = "love"
	ReactionHaha  ReactionKind = "haha"
	ReactionAngry ReactionKind = "angry"
	ReactionWow   ReactionKind = "wow"
)

var ReactionKinds = []ReactionKind{ReactionLike, ReactionLove, ReactionHaha, ReactionAngry, ReactionWow}

func (k ReactionKind) Known() bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ReactionCounts tallies reactions per kind.
func ReactionCounts(reactions map[string]string) map[string]int {
	counts := make(map[string]int, len(reactions))
	for _, kind := range reactions {
		counts[kind]++
	}
	return counts
}
