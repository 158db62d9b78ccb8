package domain

import "testing"

func TestAssignColorsStable(t *testing.T) {
	names := []string{"Popular Sites", "Work", "Videos", "News"}

	first := AssignColors(names)
	second := AssignColors(names)

	for i := range names {
		if first[i] != second[i] {
			t.Errorf("color for %q changed between renders: %s vs %s", names[i], first[i], second[i])
		}
	}
}

func TestAssignColorsNoDuplicatesUnderPalette(t *testing.T) {
	// Fewer groups than palette slots: every color must be unique even
	// when names hash to the same slot.
	names := []string{"aa", "bb", "cc", "dd", "ee", "ff", "gg", "hh"}

	colors := AssignColors(names)

	seen := make(map[string]string, len(colors))
	for i, c := range colors {
		if prev, dup := seen[c]; dup {
			t.Errorf("groups %q and %q share color %s with free slots remaining", prev, names[i], c)
		}
		seen[c] = names[i]
	}
}

func TestAssignColorsExhaustedPaletteRepeats(t *testing.T) {
	names := make([]string, len(GroupColors)+5)
	for i := range names {
		names[i] = string(rune('a' + i%26)) + string(rune('A' + i/26))
	}

	colors := AssignColors(names)
	if len(colors) != len(names) {
		t.Fatalf("AssignColors() = %d colors, want %d", len(colors), len(names))
	}
	// Beyond palette capacity repeats are allowed, assignment just has
	// to stay deterministic.
	again := AssignColors(names)
	for i := range colors {
		if colors[i] != again[i] {
			t.Errorf("assignment not deterministic at %d", i)
		}
	}
}

func TestEmojiForDeterministic(t *testing.T) {
	if EmojiFor("hello") != EmojiFor("hello") {
		t.Error("EmojiFor() not deterministic")
	}
	found := false
	for _, e := range KeywordEmojis {
		if e == EmojiFor("hello") {
			found = true
			break
		}
	}
	if !found {
		t.Error("EmojiFor() returned emoji outside the palette")
	}
}

func TestHashStringNonNegative(t *testing.T) {
	for _, s := range []string{"", "a", "Popular Sites", "https://www.reddit.com/", "日本語"} {
		if hashString(s) < 0 {
			t.Errorf("hashString(%q) is negative", s)
		}
	}
}
