package codec

// MergeBytes concatenates byte slices without mutating its inputs.
func MergeBytes(chunks ...[]byte) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// PadBytes right-pads (or truncates) data to exactly n bytes using fill.
func PadBytes(data []byte, n int, fill byte) []byte {
	if len(data) >= n {
		out := make([]byte, n)
		copy(out, data[:n])
		return out
	}
	out := make([]byte, n)
	copy(out, data)
	for i := len(data); i < n; i++ {
		out[i] = fill
	}
	return out
}

// FixBytes is PadBytes with a zero fill byte, the common case used by
// fixSize.
func FixBytes(data []byte, n int) []byte {
	return PadBytes(data, n, 0)
}

// ContainsBytes reports whether needle occurs anywhere in data at or after
// offset.
func ContainsBytes(data []byte, needle []byte, offset int) bool {
	if len(needle) == 0 {
		return true
	}
	if offset < 0 {
		offset = 0
	}
	for i := offset; i+len(needle) <= len(data); i++ {
		if bytesEqual(data[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

// IndexOfBytes returns the first index at or after offset where needle
// occurs in data, or -1 if it does not occur.
func IndexOfBytes(data []byte, needle []byte, offset int) int {
	if len(needle) == 0 {
		return offset
	}
	if offset < 0 {
		offset = 0
	}
	for i := offset; i+len(needle) <= len(data); i++ {
		if bytesEqual(data[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
