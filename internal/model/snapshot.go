package model

// Snapshot is one point-in-time vmstat report. Values are never mutated
// after construction; fields appear in wire and display order.
type Snapshot struct {
	ProcsRunning uint64 `json:"procs_running"`
	ProcsBlocked uint64 `json:"procs_blocked"`

	MemSwpd  uint64 `json:"mem_swpd"` // KiB
	MemFree  uint64 `json:"mem_free"`
	MemBuff  uint64 `json:"mem_buff"`
	MemCache uint64 `json:"mem_cache"`

	SwapSI uint64 `json:"swap_si"` // per second since boot
	SwapSO uint64 `json:"swap_so"`

	IOBI uint64 `json:"io_bi"`
	IOBO uint64 `json:"io_bo"`

	SystemIn uint64 `json:"system_in"`
	SystemCS uint64 `json:"system_cs"`

	CPUUs uint64 `json:"cpu_us"` // percent, floor
	CPUSy uint64 `json:"cpu_sy"`
	CPUId uint64 `json:"cpu_id"`
	CPUWa uint64 `json:"cpu_wa"`
	CPUSt uint64 `json:"cpu_st"`
}

// NumFields is the number of values in a Snapshot.
const NumFields = 17

// Columns are the vmstat column labels in field order.
var Columns = [NumFields]string{
	"r", "b",
	"swpd", "free", "buff", "cache",
	"si", "so",
	"bi", "bo",
	"in", "cs",
	"us", "sy", "id", "wa", "st",
}

// Names are the snake_case field names in field order.
var Names = [NumFields]string{
	"procs_running", "procs_blocked",
	"mem_swpd", "mem_free", "mem_buff", "mem_cache",
	"swap_si", "swap_so",
	"io_bi", "io_bo",
	"system_in", "system_cs",
	"cpu_us", "cpu_sy", "cpu_id", "cpu_wa", "cpu_st",
}

// Group is a header over a run of consecutive columns.
type Group struct {
	Name  string
	Width int // number of columns covered
}

// Groups are the report group headers in order.
var Groups = []Group{
	{"procs", 2},
	{"memory", 4},
	{"swap", 2},
	{"io", 2},
	{"system", 2},
	{"cpu", 5},
}

// Values returns the fields in order.
func (s Snapshot) Values() [NumFields]uint64 {
	return [NumFields]uint64{
		s.ProcsRunning, s.ProcsBlocked,
		s.MemSwpd, s.MemFree, s.MemBuff, s.MemCache,
		s.SwapSI, s.SwapSO,
		s.IOBI, s.IOBO,
		s.SystemIn, s.SystemCS,
		s.CPUUs, s.CPUSy, s.CPUId, s.CPUWa, s.CPUSt,
	}
}

// FromValues is the inverse of Values.
func FromValues(v [NumFields]uint64) Snapshot {
	return Snapshot{
		ProcsRunning: v[0], ProcsBlocked: v[1],
		MemSwpd: v[2], MemFree: v[3], MemBuff: v[4], MemCache: v[5],
		SwapSI: v[6], SwapSO: v[7],
		IOBI: v[8], IOBO: v[9],
		SystemIn: v[10], SystemCS: v[11],
		CPUUs: v[12], CPUSy: v[13], CPUId: v[14], CPUWa: v[15], CPUSt: v[16],
	}
}

// CPUSum is the total of the five CPU shares; never above 100.
func (s Snapshot) CPUSum() uint64 {
	return s.CPUUs + s.CPUSy + s.CPUId + s.CPUWa + s.CPUSt
}
