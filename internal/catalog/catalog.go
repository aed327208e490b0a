package catalog

import "time"

/*
The catalog is the audit record of a bridge run: where records came from,
how many were converted, and whether the run finished cleanly. It is
written next to the preserved output so a run can be verified and
inventoried after the fact.
*/

type Catalog struct {
	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Source    string    `json:"source"`
	Mode      string    `json:"mode"`

	NumSourceRecords    int `json:"num_source_records"`
	NumRecordsConverted int `json:"num_records_converted"`
	NumAbsentFields     int `json:"num_absent_fields"`

	Completed bool `json:"completed"`
}
