package token

// AnchorIndex returns the optimal-recognition-point index for a word of
// the given rune length. The fixed table approximates how the eye's
// fixation point scales sub-linearly with word length; it depends on
// length only, never on content.
func AnchorIndex(length int) int {
	switch {
	case length <= 2:
		return 0
	case length <= 5:
		return 1
	case length <= 9:
		return 2
	case length <= 13:
		return 3
	default:
		return 4
	}
}
