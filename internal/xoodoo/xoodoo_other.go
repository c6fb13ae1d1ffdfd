//go:build !amd64 || purego

package xoodoo

import "math/bits"

func init() {
	if bits.UintSize == 64 {
		permute, kernel = permutePlanes, "planes"
	}
}
