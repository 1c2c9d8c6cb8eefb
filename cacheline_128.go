//go:build amd64 || arm64

package lfqueue

// cacheLineSize is the assumed hardware cache line size on amd64 and arm64,
// where prefetchers and coherence protocols commonly operate on 128-byte
// blocks rather than the nominal 64-byte line.
const cacheLineSize = 128
