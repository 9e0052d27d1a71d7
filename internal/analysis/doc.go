// Package analysis extracts frequency content from stored run series.
//
// A hanging cloth swings and a planet orbits at a characteristic rate. The
// tools here recover it from a per-frame series such as the centroid height
// or the total energy:
//
//   - [FFT]: radix-2 transform, zero-padded to a power of two
//   - [PowerSpectrum]: magnitude of the positive frequency bins
//   - [DominantFrequency]: strongest non-DC bin, in Hz
//
// Example:
//
//	f, _ := analysis.DominantFrequency(centroidY, fps)
//	fmt.Printf("period %.2fs\n", 1/f)
package analysis
