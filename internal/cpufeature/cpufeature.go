// Package cpufeature probes CPU SIMD capability once at startup, the same
// role the teacher's simd package gives golang.org/x/sys/cpu (see
// coregx-coregex's simd/memchr_amd64.go: "hasAVX2 = cpu.X86.HasAVX2"). This
// engine carries no assembly kernels, so the probe result only ever widens
// or narrows the batch size of the pure-Go masked-word loop in
// internal/simd; it never selects an assembly entry point.
package cpufeature

import "golang.org/x/sys/cpu"

// wideLoopPreferred is read once at init and never mutated afterward, so
// concurrent readers need no synchronization.
var wideLoopPreferred = cpu.X86.HasAVX2 || cpu.X86.HasSSE42

// WideLoopPreferred reports whether the running CPU supports a SIMD
// extension wide enough to justify internal/simd processing 8 code units
// (two masked words) per batch instead of 4 (one word). It is a batch-size hint only: both
// batch widths compute the identical result, so a false negative (treating
// an AVX2 machine as narrow) only costs throughput, never correctness.
func WideLoopPreferred() bool {
	return wideLoopPreferred
}
