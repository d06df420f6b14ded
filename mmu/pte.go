// Package mmu simulates demand paging: a page-fault handler, a
// reverse-mapped frame table, and a pluggable victim-selection policy.
package mmu

// MaxVPage is the fixed size of every process's page table.
const MaxVPage = 64

// MaxFrames is the contract ceiling on NUM_FRAMES (a 7-bit frame index).
const MaxFrames = 128

// PTE is a page-table entry. The bit-packed layout of the original is an
// optimization, not part of the contract (spec §9) — this is a plain
// struct of the same named fields.
type PTE struct {
	Present      bool
	Referenced   bool
	Modified     bool
	PagedOut     bool
	Frame        int
	VMAChecked   bool
	WriteProtect bool
	FileMapped   bool
	VMAValid     bool
}
