package mmu

// Cost table: the simulated cycle cost charged per operation (spec §4.2).
const (
	CostReadWrite = 1
	CostSwitches  = 130
	CostExits     = 1250
	CostMaps      = 300
	CostUnmaps    = 400
	CostIns       = 3100
	CostOuts      = 2700
	CostFins      = 2800
	CostFouts     = 2400
	CostZeros     = 140
	CostSegv      = 340
	CostSegprot   = 420
)

// WorkingSetTau is the age threshold (in instructions) used by the
// working-set pager.
const WorkingSetTau = 49

// ESCResetInterval is the instruction-count interval at which the NRU/ESC
// pager's sweep also clears referenced bits, per spec §4.2 and the
// open question in spec §9 (counted in instructions, not simulated time).
const ESCResetInterval = 50
