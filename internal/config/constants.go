package config

const (
	DefaultReadwiseAPIURL = "https://readwise.io/api/v2"

	// DefaultChunkSize is the number of highlights per Readwise request.
	DefaultChunkSize = 200

	// DefaultSyncSchedule runs serve-mode syncs every 6 hours.
	DefaultSyncSchedule = "0 */6 * * *"

	DefaultTasksDatabasePath = "./weread-readwise-tasks.db"
)
