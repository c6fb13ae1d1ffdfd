//go:build amd64 && !purego

package xoodoo //nolint:testpackage // testing internals

import (
	"testing"

	"golang.org/x/sys/cpu"
)

func kernels(tb testing.TB) map[string]func(*[Width]byte) {
	k := map[string]func(*[Width]byte){
		"generic":  permuteGeneric,
		"planes":   permutePlanes,
		"selected": Permute,
	}
	if cpu.X86.HasSSSE3 {
		k["ssse3"] = permuteSSSE3
	} else {
		tb.Log("SSSE3 not available, skipping ssse3 kernel")
	}
	return k
}
