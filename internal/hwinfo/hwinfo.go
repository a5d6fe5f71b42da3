// Package hwinfo reports host properties used to size worker pools.
package hwinfo

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

const sysfsCPUDir = "/sys/devices/system/cpu"

// DefaultThreads returns the number of worker threads used when a caller asks for
// the default. It prefers the physical core count reported by cpuid, then the
// online cores listed by sysfs, then the online logical CPUs, and finally 1.
func DefaultThreads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}

	return readTopology(sysfsCPUDir).threads()
}

// topology summarizes the online CPUs found under a sysfs cpu directory.
type topology struct {
	logical int                 // online cpuN entries
	cores   map[[2]int]struct{} // unique {package, core} ids
}

func (t topology) threads() int {
	switch {
	case len(t.cores) > 0:
		return len(t.cores)
	case t.logical > 0:
		return t.logical
	default:
		return 1
	}
}

// readTopology walks cpuBase/cpuN. Offline CPUs are skipped. A CPU whose topology
// ids are missing or malformed counts as logical only. A missing tree yields the
// zero topology.
func readTopology(cpuBase string) topology {
	t := topology{cores: make(map[[2]int]struct{})}

	entries, err := os.ReadDir(cpuBase)
	if err != nil {
		return t
	}

	for _, entry := range entries {
		if _, ok := cpuIndex(entry.Name()); !ok {
			continue
		}
		dir := filepath.Join(cpuBase, entry.Name())
		if !online(dir) {
			continue
		}
		t.logical++

		pkg, okPkg := readInt(filepath.Join(dir, "topology", "physical_package_id"))
		core, okCore := readInt(filepath.Join(dir, "topology", "core_id"))
		if okPkg && okCore {
			t.cores[[2]int{pkg, core}] = struct{}{}
		}
	}

	return t
}

// cpuIndex parses a cpuN directory name. Siblings such as cpufreq, cpuidle and
// the online/possible masks are rejected.
func cpuIndex(name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, "cpu")
	if !ok || suffix == "" || suffix[0] == '+' || suffix[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}

	return n, true
}

// online reports whether the CPU in dir is online. The boot CPU usually has no
// online file and is always online.
func online(dir string) bool {
	data, err := os.ReadFile(filepath.Join(dir, "online"))
	if err != nil {
		return true
	}

	return strings.TrimSpace(string(data)) != "0"
}

// readInt reads a sysfs attribute holding one decimal integer.
func readInt(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}

	return n, true
}
