package software

import (
	"math"
	"time"
)

// Per-worker statistics collected while executing the last invocation.
type workerStats struct {
	// Rows processed by the worker.
	Rows uint32

	// Time spent processing the rows.
	Time time.Duration
}

// The blockScheduler splits a surface into row blocks of variable height
// and assigns one block to each worker using feedback collected from the
// previous invocation.
//
// The scheduler assumes that the shading cost of two subsequent
// invocations of the same program is approximately the same.
type blockScheduler struct {
	blockAssignment []uint32
	lastH           uint32
}

func newBlockScheduler() *blockScheduler {
	return &blockScheduler{}
}

// Split a surface of height frameH into one block per worker. When
// statistics for the previous invocation are available the workload for
// worker w is estimated as:
// rows_w = frameH * (rows_w / time_w) / Σ(rows_i / time_i)
//
// Workers may be assigned 0 rows if frameH is smaller than the worker count.
func (sch *blockScheduler) Schedule(stats []workerStats, frameH uint32) []uint32 {
	numWorkers := len(stats)

	// First invocation, worker count or surface height changed; split evenly.
	if len(sch.blockAssignment) != numWorkers || sch.lastH != frameH || !haveTimings(stats) {
		sch.blockAssignment = make([]uint32, numWorkers)
		sch.lastH = frameH
		for idx := range sch.blockAssignment {
			sch.blockAssignment[idx] = frameH / uint32(numWorkers)
		}
		sch.blockAssignment[0] += frameH - (frameH/uint32(numWorkers))*uint32(numWorkers)
		return sch.blockAssignment
	}

	var total float64
	for _, st := range stats {
		total += float64(st.Rows) / float64(st.Time)
	}

	scaler := float64(frameH) / total
	var scheduledRows uint32
	for idx, st := range stats {
		rows := math.Max(1.0, math.Floor(float64(st.Rows)/float64(st.Time)*scaler))
		sch.blockAssignment[idx] = uint32(rows)
		scheduledRows += sch.blockAssignment[idx]
	}

	// Clamping to 1 row may over-assign; take the excess from the largest blocks.
	for scheduledRows > frameH {
		largest := 0
		for idx, rows := range sch.blockAssignment {
			if rows > sch.blockAssignment[largest] {
				largest = idx
			}
		}
		sch.blockAssignment[largest]--
		scheduledRows--
	}

	// In case rows don't add up to the frame height append the missing ones to the first worker
	sch.blockAssignment[0] += frameH - scheduledRows

	return sch.blockAssignment
}

// Returns true if every worker processed at least one row in a measurable time.
func haveTimings(stats []workerStats) bool {
	for _, st := range stats {
		if st.Rows == 0 || st.Time <= 0 {
			return false
		}
	}
	return true
}
