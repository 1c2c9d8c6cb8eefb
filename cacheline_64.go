//go:build !amd64 && !arm64

package lfqueue

// cacheLineSize is the assumed hardware cache line size on architectures
// other than amd64/arm64.
const cacheLineSize = 64
