package codec

// Predicate builds a two-way codec that dispatches between ifTrue and
// ifFalse, the degenerate single-branching case of PatternMatch spelled out
// as its own combinator for the common boolean-shaped split (e.g.
// legacy-vs-versioned message framing).
func Predicate[T any](valueMatches func(T) bool, bytesMatch func(bytes []byte, offset int) bool, ifTrue, ifFalse Codec[T]) Codec[T] {
	return PatternMatch([]Pattern[T]{
		{Name: "true", ValueMatches: valueMatches, BytesMatch: bytesMatch, Codec: ifTrue},
		{Name: "false", ValueMatches: func(v T) bool { return !valueMatches(v) }, BytesMatch: func(b []byte, o int) bool { return !bytesMatch(b, o) }, Codec: ifFalse},
	})
}
