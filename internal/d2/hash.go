package d2

import "strconv"

// Hash is the unsigned 32-bit content identifier used by the API.
type Hash uint32

// Key returns the manifest primary key for h. The manifest stores the same
// 32 bits as a signed integer, so hashes >= 2^31 map to negative keys.
func (h Hash) Key() int32 {
	return int32(h)
}

func (h Hash) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// HashFromKey reverses Key.
func HashFromKey(key int32) Hash {
	return Hash(uint32(key))
}

// ParseHash parses a decimal hash. Negative values are accepted as manifest
// keys and reinterpreted.
func ParseHash(s string) (Hash, error) {
	if u, err := strconv.ParseUint(s, 10, 32); err == nil {
		return Hash(u), nil
	}
	k, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return HashFromKey(int32(k)), nil
}

// Keys converts hashes to manifest keys, dropping duplicates.
// The first occurrence of each hash determines its position.
func Keys(hashes []Hash) []int32 {
	seen := make(map[int32]struct{}, len(hashes))
	keys := make([]int32, 0, len(hashes))
	for _, h := range hashes {
		k := h.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
