package gc

// The functions below are the package-level free functions spec.md §6
// lists (force_collect, finalizer_safe, stats, configure), operating on
// DefaultHeap for callers that don't need more than one heap.

// ForceCollect triggers a collection cycle on the default heap now.
func ForceCollect() { DefaultHeap().ForceCollect() }

// FinalizerSafe reports whether the calling code is safe to dereference
// managed pointers on the default heap right now.
func FinalizerSafe() bool { return DefaultHeap().FinalizerSafe() }

// CollectStats returns a snapshot of the default heap's statistics.
func CollectStats() Stats { return DefaultHeap().Stats() }

// Configure updates the default heap's configuration in place.
func Configure(fn func(*Config)) { DefaultHeap().Configure(fn) }

// NewDefault moves value into the default heap, equivalent to
// New(DefaultHeap(), value).
func NewDefault[T Trace](value T) Gc[T] { return New(DefaultHeap(), value) }
