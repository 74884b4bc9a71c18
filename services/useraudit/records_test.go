package useraudit

import (
	"testing"

	"prtgaudit/lib/scrapers/prtg"

	"github.com/stretchr/testify/require"
)

func TestAssembleRecordsPreservesRosterOrder(t *testing.T) {
	refs := []prtg.UserRef{
		{Id: 20, Name: "Bob"},
		{Id: 10, Name: "Alice"},
	}
	details := map[int]prtg.UserDetail{
		10: {Status: "Active", PrimaryGroup: "Admins", LastLogin: "8/5/2025"},
		20: {Status: "Paused", PrimaryGroup: "Users", LastLogin: "(has not logged in yet)"},
	}

	records, err := assembleRecords(refs, details)
	require.NoError(t, err)
	require.Equal(t, []UserRecord{
		{UserName: "Bob", PrimaryGroup: "Users", AccountStatus: "Paused", LastLoginDate: "(has not logged in yet)"},
		{UserName: "Alice", PrimaryGroup: "Admins", AccountStatus: "Active", LastLoginDate: "8/5/2025"},
	}, records)
}

func TestAssembleRecordsEmptyRoster(t *testing.T) {
	records, err := assembleRecords(nil, map[int]prtg.UserDetail{})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestAssembleRecordsMissingDetail(t *testing.T) {
	refs := []prtg.UserRef{
		{Id: 10, Name: "Alice"},
		{Id: 20, Name: "Bob"},
	}
	details := map[int]prtg.UserDetail{
		10: {Status: "Active", PrimaryGroup: "Admins", LastLogin: "8/5/2025"},
	}

	_, err := assembleRecords(refs, details)
	var mismatch *FieldCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 2, mismatch.RosterCount)
	require.Equal(t, 1, mismatch.DetailCount)
	require.Equal(t, []int{20}, mismatch.MissingIds)
}

func TestAssembleRecordsExtraDetail(t *testing.T) {
	refs := []prtg.UserRef{{Id: 10, Name: "Alice"}}
	details := map[int]prtg.UserDetail{
		10: {Status: "Active", PrimaryGroup: "Admins", LastLogin: "8/5/2025"},
		99: {Status: "Paused", PrimaryGroup: "Users", LastLogin: "Error"},
	}

	_, err := assembleRecords(refs, details)
	var mismatch *FieldCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 1, mismatch.RosterCount)
	require.Equal(t, 2, mismatch.DetailCount)
}
