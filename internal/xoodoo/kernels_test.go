//go:build !amd64 || purego

package xoodoo //nolint:testpackage // testing internals

import "testing"

func kernels(_ testing.TB) map[string]func(*[Width]byte) {
	return map[string]func(*[Width]byte){
		"generic":  permuteGeneric,
		"planes":   permutePlanes,
		"selected": Permute,
	}
}
