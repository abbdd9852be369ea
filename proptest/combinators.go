package proptest

// OneOf returns a random element from the provided values.
// Panics if values is empty.
func OneOf[T any](g *Generator, values ...T) T {
	if len(values) == 0 {
		panic("proptest: OneOf called with no values")
	}
	return values[g.Intn(len(values))]
}

// Pick returns a random element from the slice.
// Panics if the slice is empty.
func Pick[T any](g *Generator, slice []T) T {
	if len(slice) == 0 {
		panic("proptest: Pick called with empty slice")
	}
	return slice[g.Intn(len(slice))]
}

// Slice generates a slice of up to maxLen elements using gen.
func Slice[T any](g *Generator, maxLen int, gen func(*Generator) T) []T {
	return SliceN(g, 0, maxLen, gen)
}

// SliceN generates a slice of between minLen and maxLen elements using gen.
func SliceN[T any](g *Generator, minLen, maxLen int, gen func(*Generator) T) []T {
	n := g.IntRange(minLen, maxLen)
	out := make([]T, n)
	for i := range out {
		out[i] = gen(g)
	}
	return out
}

// UniqueIdentifiers generates n distinct lowercase identifiers of up to
// maxLen runes, each starting with a letter.
func (g *Generator) UniqueIdentifiers(n, maxLen int) []string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	const tail = "abcdefghijklmnopqrstuvwxyz0123456789_"

	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		length := g.IntRange(1, maxLen)
		buf := make([]byte, length)
		buf[0] = letters[g.Intn(len(letters))]
		for i := 1; i < length; i++ {
			buf[i] = tail[g.Intn(len(tail))]
		}
		s := string(buf)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
