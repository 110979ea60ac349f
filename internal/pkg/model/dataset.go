package model

import (
	"github.com/google/uuid"
)

// Dataset is an ordered, immutable sequence of records loaded once per
// session.
//
// Downstream consumers never mutate records in place: every transformation
// produces new derived structures. Each dataset carries a unique version
// identifier so that caches can key derived results on it.
type Dataset struct {
	version uuid.UUID
	records []Record
}

// NewDataset builds a dataset over the given records and stamps it with a
// fresh version identifier.
func NewDataset(records []Record) *Dataset {
	return &Dataset{
		version: uuid.New(),
		records: records,
	}
}

// Version returns the dataset's unique version identifier.
func (d *Dataset) Version() string {
	return d.version.String()
}

// Records returns the ordered records of the dataset.
//
// The returned slice is shared: callers must treat it as read-only.
func (d *Dataset) Records() []Record {
	return d.records
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.records)
}
