package persist

import (
	"time"

	"github.com/skypie-oracle/precomputer/internal/decision"
)

// ToRecord converts a Decision into its wire record, stamped with now. The
// write choice and read choice already carry full ObjectStore/
// ApplicationRegion values, so no catalog lookup is needed to recover
// names.
func ToRecord(d decision.Decision, now time.Time) DecisionRecord {
	writeNames := make([]string, len(d.Write.Stores))
	for i, o := range d.Write.Stores {
		writeNames[i] = o.Name
	}

	assignments := d.Read.Assignments()
	records := make([]AssignmentRecord, len(assignments))
	for i, a := range assignments {
		records[i] = AssignmentRecord{RegionName: a.Region.Region.Name, StoreName: a.Store.Name}
	}

	return DecisionRecord{
		WriteStoreNames: writeNames,
		Assignments:     records,
		CostHalfplane:   d.CostVector(true),
		Timestamp:       now,
	}
}
