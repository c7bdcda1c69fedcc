package detector

import (
	"fmt"
	"io"
	"strings"

	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/shadowmem"
)

// AccessType represents the type of memory access (Read or Write).
type AccessType int

const (
	// AccessRead indicates a read.
	AccessRead AccessType = iota
	// AccessWrite indicates a write.
	AccessWrite
)

// String returns the string representation of an AccessType.
func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// Race type constants, named previous-current.
const (
	// RaceTypeWriteWrite indicates a write-write data race.
	RaceTypeWriteWrite = "write-write"
	// RaceTypeReadWrite indicates an earlier read racing with a write.
	RaceTypeReadWrite = "read-write"
	// RaceTypeWriteRead indicates an earlier write racing with a read.
	RaceTypeWriteRead = "write-read"
)

// AccessInfo describes one side of a race.
type AccessInfo struct {
	Type   AccessType
	Loc    shadowmem.Loc
	Worker uint16
	Epoch  epoch.Epoch
}

// RaceReport describes two conflicting accesses to one location.
type RaceReport struct {
	// Kind is one of the RaceType constants.
	Kind string

	// Current is the access that triggered detection.
	Current AccessInfo

	// Previous is the earlier conflicting access.
	Previous AccessInfo

	// DeduplicationKey is "{kind}:{loc}:{w1}:{w2}" with w1 <= w2.
	DeduplicationKey string
}

// generateDeduplicationKey builds a key that is the same whichever of the two
// workers was detected first.
//
// Example:
//
//	generateDeduplicationKey(RaceTypeWriteWrite, shadowmem.Scalar("sum"), 5, 3)
//	// "write-write:sum:3:5"
func generateDeduplicationKey(raceType string, loc shadowmem.Loc, w1, w2 uint16) string {
	return fmt.Sprintf("%s:%s:%d:%d", raceType, loc, min(w1, w2), max(w1, w2))
}

// NewRaceReport builds a report from the two epochs involved.
func NewRaceReport(raceType string, loc shadowmem.Loc, prevEpoch, currEpoch epoch.Epoch) *RaceReport {
	report := &RaceReport{
		Kind: raceType,
		Current: AccessInfo{
			Loc:    loc,
			Worker: currEpoch.TID(),
			Epoch:  currEpoch,
		},
		Previous: AccessInfo{
			Loc:    loc,
			Worker: prevEpoch.TID(),
			Epoch:  prevEpoch,
		},
	}

	switch raceType {
	case RaceTypeReadWrite:
		report.Current.Type = AccessWrite
		report.Previous.Type = AccessRead
	case RaceTypeWriteRead:
		report.Current.Type = AccessRead
		report.Previous.Type = AccessWrite
	default:
		report.Current.Type = AccessWrite
		report.Previous.Type = AccessWrite
	}

	report.DeduplicationKey = generateDeduplicationKey(raceType, loc, report.Previous.Worker, report.Current.Worker)
	return report
}

// Format writes the report in the layout of Go's race detector:
//
//	==================
//	WARNING: DATA RACE
//	Write at sum by worker 2:
//	  [epoch: 4@2]
//
//	Previous Write at sum by worker 1:
//	  [epoch: 3@1]
//	==================
//
//nolint:errcheck // best-effort diagnostic output
func (r *RaceReport) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: DATA RACE\n")
	fmt.Fprintf(w, "%s at %s by worker %d:\n", r.Current.Type, r.Current.Loc, r.Current.Worker)
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Current.Epoch)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Previous %s at %s by worker %d:\n", r.Previous.Type, r.Previous.Loc, r.Previous.Worker)
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Previous.Epoch)
	fmt.Fprintf(w, "==================\n")
}

// String returns the formatted report.
func (r *RaceReport) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}
