package parallel

import (
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
		want int
	}{
		{"empty", 0, DefaultConfig(), 0},
		{"disabled", 100, Config{Enabled: false, NumWorkers: 8, MinChunkSize: 1}, 1},
		{"below min chunk", 10, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}, 1},
		{"even", 100, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}, 4},
		{"min chunk bounds workers", 100, Config{Enabled: true, NumWorkers: 10, MinChunkSize: 30}, 4},
		{"zero workers", 100, Config{Enabled: true, NumWorkers: 0, MinChunkSize: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := Split(tt.n, tt.cfg)
			if len(ranges) != tt.want {
				t.Fatalf("Split(%d) = %d ranges, want %d", tt.n, len(ranges), tt.want)
			}

			next := 0
			for _, r := range ranges {
				if r.Start != next || r.Len() <= 0 {
					t.Fatalf("ranges not contiguous: %v", ranges)
				}
				next = r.End
			}
			if next != tt.n {
				t.Errorf("ranges cover [0, %d), want [0, %d)", next, tt.n)
			}
		})
	}
}

func TestSequentialSplitsOnce(t *testing.T) {
	ranges := Split(1000, Sequential())
	if len(ranges) != 1 || ranges[0] != (Range{Start: 0, End: 1000}) {
		t.Errorf("Split with Sequential() = %v, want [{0 1000}]", ranges)
	}
}
