package mmu

// VMA is a virtual memory area: an inclusive range of virtual pages with
// uniform write-protect and file-mapped attributes.
type VMA struct {
	StartVPage   int
	EndVPage     int
	WriteProtect bool
	FileMapped   bool
}

// Contains reports whether vpage falls within this VMA's inclusive range.
func (v VMA) Contains(vpage int) bool {
	return vpage >= v.StartVPage && vpage <= v.EndVPage
}
