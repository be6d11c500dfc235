// Package gc implements a thread-local, precise, mark-and-sweep garbage
// collector. It provides Gc[T], a smart-pointer handle for values whose
// ownership graphs may contain cycles, and GcCell[T], a borrow-checked
// interior-mutability cell that coordinates with the collector's rooting.
//
// Unlike a reference-counted pointer, Gc[T] permits arbitrary cyclic
// references among managed values and reclaims them correctly. Unlike a
// tracing collector that scans the program stack, this collector is
// precise: every live reference held outside the managed heap is counted
// as a root via Heap, and every reference held inside the heap is
// discovered by tracing through the user-implemented Trace interface.
//
// A Heap is not safe for use from more than one goroutine at a time; it
// plays the role of the "thread-local heap" in the design this package is
// modeled on. Callers that want independent, concurrently-usable heaps
// should create one *Heap per goroutine with NewHeap.
package gc
