package hash

// keySeed makes keys independent of the raw code values.
var keySeed = uint64(CRC32C([]byte("seqmap/hashblock"))) | uint64(CRC32C([]byte("level")))<<32

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// BaseKey returns the content key of a single canonical base code.
func BaseKey(code uint8) uint64 {
	return mix64(keySeed ^ uint64(code))
}

// Combine returns the key of the concatenation of two keyed spans.
func Combine(left, right uint64) uint64 {
	return mix64(left*0x9e3779b97f4a7c15 ^ (right + keySeed))
}
