//go:build amd64 && !purego

package xoodoo

import "golang.org/x/sys/cpu"

// permuteSSSE3 computes Xoodoo[12] with one XMM register per plane. It requires SSSE3 for the byte shuffle in
// rho-east.
//
//go:noescape
//goland:noinspection GoUnusedParameter
func permuteSSSE3(state *[Width]byte)

func init() {
	if cpu.X86.HasSSSE3 {
		permute, kernel = permuteSSSE3, "ssse3"
	} else {
		permute, kernel = permutePlanes, "planes"
	}
}
