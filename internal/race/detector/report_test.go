package detector

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kolkov/forkjoin/internal/race/epoch"
	"github.com/kolkov/forkjoin/internal/race/shadowmem"
)

func TestAccessType_String(t *testing.T) {
	tests := []struct {
		name     string
		access   AccessType
		expected string
	}{
		{"Read", AccessRead, "Read"},
		{"Write", AccessWrite, "Write"},
		{"Unknown", AccessType(999), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.access.String(); got != tt.expected {
				t.Errorf("AccessType.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewRaceReport(t *testing.T) {
	loc := shadowmem.Index("array", 7)
	prevEpoch := epoch.NewEpoch(1, 10)
	currEpoch := epoch.NewEpoch(2, 20)

	tests := []struct {
		raceType string
		wantCurr AccessType
		wantPrev AccessType
	}{
		{RaceTypeWriteWrite, AccessWrite, AccessWrite},
		{RaceTypeReadWrite, AccessWrite, AccessRead},
		{RaceTypeWriteRead, AccessRead, AccessWrite},
		{"unknown-type", AccessWrite, AccessWrite},
	}

	for _, tt := range tests {
		t.Run(tt.raceType, func(t *testing.T) {
			report := NewRaceReport(tt.raceType, loc, prevEpoch, currEpoch)

			if report.Kind != tt.raceType {
				t.Errorf("Kind = %q, want %q", report.Kind, tt.raceType)
			}
			if report.Current.Type != tt.wantCurr {
				t.Errorf("Current.Type = %v, want %v", report.Current.Type, tt.wantCurr)
			}
			if report.Previous.Type != tt.wantPrev {
				t.Errorf("Previous.Type = %v, want %v", report.Previous.Type, tt.wantPrev)
			}
			if report.Current.Worker != 2 || report.Previous.Worker != 1 {
				t.Errorf("workers = (%d, %d), want (2, 1)", report.Current.Worker, report.Previous.Worker)
			}
			if report.Current.Epoch != currEpoch || report.Previous.Epoch != prevEpoch {
				t.Errorf("epochs = (%v, %v), want (%v, %v)",
					report.Current.Epoch, report.Previous.Epoch, currEpoch, prevEpoch)
			}
			if report.Current.Loc != loc || report.Previous.Loc != loc {
				t.Errorf("locs = (%v, %v), want %v", report.Current.Loc, report.Previous.Loc, loc)
			}
		})
	}
}

func TestRaceReport_Format(t *testing.T) {
	loc := shadowmem.Scalar("sum")
	prevEpoch := epoch.NewEpoch(5, 100)
	currEpoch := epoch.NewEpoch(7, 200)

	tests := []struct {
		raceType     string
		wantContains []string
	}{
		{
			raceType: RaceTypeWriteWrite,
			wantContains: []string{
				"Write at sum by worker 7:",
				"Previous Write at sum by worker 5:",
				"[epoch: 200@7]",
				"[epoch: 100@5]",
			},
		},
		{
			raceType: RaceTypeReadWrite,
			wantContains: []string{
				"Write at sum by worker 7:",
				"Previous Read at sum by worker 5:",
			},
		},
		{
			raceType: RaceTypeWriteRead,
			wantContains: []string{
				"Read at sum by worker 7:",
				"Previous Write at sum by worker 5:",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raceType, func(t *testing.T) {
			var buf bytes.Buffer
			NewRaceReport(tt.raceType, loc, prevEpoch, currEpoch).Format(&buf)
			output := buf.String()

			for _, want := range tt.wantContains {
				if !strings.Contains(output, want) {
					t.Errorf("Format() output missing %q\nGot:\n%s", want, output)
				}
			}

			lines := strings.Split(output, "\n")
			if lines[0] != "==================" {
				t.Errorf("first line = %q, want separator", lines[0])
			}
			if lines[1] != "WARNING: DATA RACE" {
				t.Errorf("second line = %q, want warning", lines[1])
			}
		})
	}
}

func TestRaceReport_String(t *testing.T) {
	report := NewRaceReport(RaceTypeWriteWrite, shadowmem.Index("array", 3), epoch.NewEpoch(1, 10), epoch.NewEpoch(2, 20))

	var buf bytes.Buffer
	report.Format(&buf)

	if report.String() != buf.String() {
		t.Errorf("String() differs from Format()\nString:\n%s\nFormat:\n%s", report.String(), buf.String())
	}
	if !strings.Contains(report.String(), "Write at array[3] by worker 2:") {
		t.Errorf("String() missing location line:\n%s", report.String())
	}
}

func TestGenerateDeduplicationKey(t *testing.T) {
	tests := []struct {
		name     string
		raceType string
		loc      shadowmem.Loc
		w1, w2   uint16
		wantKey  string
	}{
		{"sorted workers", RaceTypeWriteWrite, shadowmem.Scalar("sum"), 3, 5, "write-write:sum:3:5"},
		{"unsorted workers", RaceTypeWriteWrite, shadowmem.Scalar("sum"), 5, 3, "write-write:sum:3:5"},
		{"indexed location", RaceTypeReadWrite, shadowmem.Index("array", 12), 1, 2, "read-write:array[12]:1:2"},
		{"private location", RaceTypeWriteRead, shadowmem.Private("temp", 4), 4, 0, "write-read:temp#4:0:4"},
		{"same worker", RaceTypeWriteWrite, shadowmem.Scalar("x"), 7, 7, "write-write:x:7:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateDeduplicationKey(tt.raceType, tt.loc, tt.w1, tt.w2); got != tt.wantKey {
				t.Errorf("generateDeduplicationKey() = %q, want %q", got, tt.wantKey)
			}
		})
	}
}

func TestDetector_Deduplication(t *testing.T) {
	sum := shadowmem.Scalar("sum")

	tests := []struct {
		name  string
		races [][2]epoch.Epoch
		kinds []string
		locs  []shadowmem.Loc
		want  int
	}{
		{
			name:  "duplicate skipped",
			races: [][2]epoch.Epoch{{epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}, {epoch.NewEpoch(1, 6), epoch.NewEpoch(2, 11)}},
			kinds: []string{RaceTypeWriteWrite, RaceTypeWriteWrite},
			locs:  []shadowmem.Loc{sum, sum},
			want:  1,
		},
		{
			name:  "worker order irrelevant",
			races: [][2]epoch.Epoch{{epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}, {epoch.NewEpoch(2, 12), epoch.NewEpoch(1, 7)}},
			kinds: []string{RaceTypeWriteWrite, RaceTypeWriteWrite},
			locs:  []shadowmem.Loc{sum, sum},
			want:  1,
		},
		{
			name:  "different location reported",
			races: [][2]epoch.Epoch{{epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}, {epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}},
			kinds: []string{RaceTypeWriteWrite, RaceTypeWriteWrite},
			locs:  []shadowmem.Loc{sum, shadowmem.Scalar("even_count")},
			want:  2,
		},
		{
			name:  "different workers reported",
			races: [][2]epoch.Epoch{{epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}, {epoch.NewEpoch(1, 5), epoch.NewEpoch(3, 10)}},
			kinds: []string{RaceTypeWriteWrite, RaceTypeWriteWrite},
			locs:  []shadowmem.Loc{sum, sum},
			want:  2,
		},
		{
			name:  "different kinds reported",
			races: [][2]epoch.Epoch{{epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}, {epoch.NewEpoch(1, 5), epoch.NewEpoch(2, 10)}},
			kinds: []string{RaceTypeWriteWrite, RaceTypeReadWrite},
			locs:  []shadowmem.Loc{sum, sum},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			for i, r := range tt.races {
				d.reportRace(tt.kinds[i], tt.locs[i], r[0], r[1])
			}
			if got := d.RacesDetected(); got != tt.want {
				t.Errorf("RacesDetected() = %d, want %d", got, tt.want)
			}
			if got := len(d.Reports()); got != tt.want {
				t.Errorf("len(Reports()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func BenchmarkRaceReport_Format(b *testing.B) {
	report := NewRaceReport(RaceTypeWriteWrite, shadowmem.Scalar("sum"), epoch.NewEpoch(1, 10), epoch.NewEpoch(2, 20))
	var buf bytes.Buffer

	for b.Loop() {
		buf.Reset()
		report.Format(&buf)
	}
}

func BenchmarkGenerateDeduplicationKey(b *testing.B) {
	loc := shadowmem.Index("array", 42)
	for b.Loop() {
		_ = generateDeduplicationKey(RaceTypeWriteWrite, loc, 5, 3)
	}
}
