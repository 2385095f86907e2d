package cohort

import "strconv"

// TaskId identifies a Task within one Execution. Ids are dense, zero-based,
// and assigned in spawn order: the first task spawned in a run is always
// TaskId 0.
type TaskId int

// String implements fmt.Stringer.
func (id TaskId) String() string {
	return strconv.Itoa(int(id))
}
