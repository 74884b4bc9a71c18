package useraudit

// Credential is held only for the duration of one server's processing
// and is never persisted.
type Credential struct {
	ServerUrl string
	Username  string
	Password  string
}

type UserRecord struct {
	UserName      string
	PrimaryGroup  string
	AccountStatus string
	LastLoginDate string
}

// ServerResult is created once per server and owned by the aggregator
// from then on. A failed server carries its message here instead of
// aborting the run.
type ServerResult struct {
	ServerName   string
	Users        []UserRecord
	Success      bool
	ErrorMessage string
}
