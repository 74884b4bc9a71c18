package useraudit

import (
	"fmt"

	"prtgaudit/lib/scrapers/prtg"
)

// FieldCountMismatchError surfaces silently-dropped extractions: every
// roster entry must have a detail record before any row is emitted.
type FieldCountMismatchError struct {
	RosterCount int
	DetailCount int
	MissingIds  []int
}

func (e *FieldCountMismatchError) Error() string {
	return fmt.Sprintf(
		"extracted field counts do not line up with the roster: roster=%d details=%d missing ids=%v",
		e.RosterCount, e.DetailCount, e.MissingIds,
	)
}

// assembleRecords zips the roster and the per-id details into rows in
// roster order. Fail-closed: any roster entry without a detail record
// invalidates the whole server's result, rows are never truncated or
// padded.
func assembleRecords(refs []prtg.UserRef, details map[int]prtg.UserDetail) ([]UserRecord, error) {
	var missing []int
	for _, ref := range refs {
		if _, ok := details[ref.Id]; !ok {
			missing = append(missing, ref.Id)
		}
	}
	if len(missing) > 0 || len(details) != len(refs) {
		return nil, &FieldCountMismatchError{
			RosterCount: len(refs),
			DetailCount: len(details),
			MissingIds:  missing,
		}
	}

	records := make([]UserRecord, len(refs))
	for i, ref := range refs {
		detail := details[ref.Id]
		records[i] = UserRecord{
			UserName:      ref.Name,
			PrimaryGroup:  detail.PrimaryGroup,
			AccountStatus: detail.Status,
			LastLoginDate: detail.LastLogin,
		}
	}
	return records, nil
}
