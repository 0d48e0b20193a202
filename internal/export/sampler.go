package export

// Sample returns the ordered frames to export for the inclusive range
// start..end with the given skip count. The walk starts at start and
// advances by 1+skip; the final frame is appended unconditionally so
// the animation always ends on its last pose. When the stride divides
// the range exactly this produces a duplicate final frame. Loaders
// tolerate it and downstream tooling counts on the emitted frame
// count, so the duplicate is kept as is.
func Sample(start, end, skip int) []int {
	stride := 1 + skip
	frames := make([]int, 0, (end-start)/stride+2)
	for f := start; f <= end; f += stride {
		frames = append(frames, f)
	}
	return append(frames, end)
}
