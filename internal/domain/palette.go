package domain

// GroupColors is the palette of 20 visually distinct light colors
// assigned to group cards.
var GroupColors = []string{
	"#FFEB99", "#B2F7EF", "#FFD6E0", "#D0F4DE", "#F6DFEB",
	"#E4C1F9", "#C1F9E4", "#F9F7C1", "#F9E4C1", "#C1D6F9",
	"#F9C1C1", "#C1F9F6", "#F6F9C1", "#C1F6F9", "#F9C1E4",
	"#E4F9C1", "#C1E4F9", "#F9C1D6", "#D6F9C1", "#C1F9D6",
}

// KeywordEmojis is the palette of 30 emojis assigned to keywords.
var KeywordEmojis = []string{
	"🌟", "🔥", "💡", "🎯", "🚀", "✨", "🧠", "📌", "🔑", "🎉",
	"📝", "📚", "💎", "🧩", "🎵", "🎬", "🎮", "📷", "🌈", "🍀",
	"🍕", "🍔", "🍦", "🍩", "🍉", "🍎", "🍓", "🍒", "🍇", "🍊",
}

// hashString is the djb2 accumulate: h = h*33 + byte, over the raw
// bytes, folded to a non-negative 32-bit value. Deterministic across
// runs so color and emoji assignment is stable between renders.
func hashString(s string) int {
	h := int32(5381)
	for i := 0; i < len(s); i++ {
		h = h<<5 + h + int32(s[i])
	}
	if h < 0 {
		h = -h
	}
	if h < 0 {
		// -MinInt32 overflows back to itself.
		h = 0
	}
	return int(h)
}

// ColorIndex returns the palette slot for a group name, resolving
// collisions against used by linear probing to the next free slot,
// wrapping, bounded by one pass over the palette. The chosen slot is
// recorded in used. When every slot is taken, repeats are allowed and
// the raw hash slot is returned.
func ColorIndex(name string, used map[int]struct{}) int {
	idx := hashString(name) % len(GroupColors)
	for tries := 0; tries < len(GroupColors); tries++ {
		if _, taken := used[idx]; !taken {
			break
		}
		idx = (idx + 1) % len(GroupColors)
	}
	used[idx] = struct{}{}
	return idx
}

// AssignColors maps an ordered list of group names to palette colors
// for one render pass. Same input order always yields the same
// assignment; with fewer names than palette slots no color repeats.
func AssignColors(names []string) []string {
	used := make(map[int]struct{}, len(names))
	colors := make([]string, len(names))
	for i, name := range names {
		colors[i] = GroupColors[ColorIndex(name, used)]
	}
	return colors
}

// EmojiFor returns the emoji for a keyword. No collision avoidance:
// repeats across keywords are fine.
func EmojiFor(keyword string) string {
	return KeywordEmojis[hashString(keyword)%len(KeywordEmojis)]
}
