package fleks

// extendSlice extends a slice by n zero elements, reallocating to at least
// double the current capacity when it has to grow.
func extendSlice[T any](s []T, n int) []T {
	newLen := len(s) + n
	if cap(s) >= newLen {
		return s[:newLen]
	}
	newCap := max(2*cap(s), newLen)
	ns := make([]T, newLen, newCap)
	copy(ns, s)
	return ns
}

// grownCapacity is the capacity a holder grows to so that index fits:
// double the current size, or just enough for index, whichever is larger.
func grownCapacity(current, index int) int {
	return max(current*2, index+1)
}
