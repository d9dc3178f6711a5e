package redis

const (
	// KeyPrefixRecord is the prefix for sync record keys
	KeyPrefixRecord = "linkpost:sync:"
	// KeyAllRecords is the key for the set of all synced bookmark IDs
	KeyAllRecords = "linkpost:sync:all"
	// KeyLastRun holds the status of the most recent run
	KeyLastRun = "linkpost:run:last"
)

// RecordKey returns the Redis key for a bookmark's sync record
func RecordKey(bookmarkID string) string {
	return KeyPrefixRecord + "id:" + bookmarkID
}

// AllRecordsKey returns the key for the set of all synced bookmark IDs
func AllRecordsKey() string {
	return KeyAllRecords
}

// LastRunKey returns the key for the last run status
func LastRunKey() string {
	return KeyLastRun
}
