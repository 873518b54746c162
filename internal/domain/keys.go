package domain

import "path/filepath"

// Storage key namespace. Every durable record lives under this prefix so the
// key-value store can be shared with other tools without collisions.
const keyPrefix = "taskflow:"

// TimerRecordKey is the key of the timer reload-recovery record.
func TimerRecordKey() string {
	return keyPrefix + "timer"
}

// ChatKey returns the key of a task's persisted chat transcript.
func ChatKey(taskID string) string {
	return keyPrefix + "chat:" + taskID
}

// ChatKeyPrefix returns the common prefix of all chat transcript keys.
func ChatKeyPrefix() string {
	return keyPrefix + "chat:"
}

// LedgerKey is the key of the gamification ledger.
func LedgerKey() string {
	return keyPrefix + "ledger"
}

// MigratedKey returns the key of the per-user migration-completed flag.
func MigratedKey(userID string) string {
	return keyPrefix + "migrated:" + userID
}

// File layout under the data directory.

// StorePath returns the path of the guest task store file.
func StorePath(dataDir string) string {
	return filepath.Join(dataDir, "tasks.json")
}

// KVPath returns the path of the key-value store file.
func KVPath(dataDir string) string {
	return filepath.Join(dataDir, "state.json")
}

// EventsPath returns the path of the timer event channel file.
func EventsPath(dataDir string) string {
	return filepath.Join(dataDir, "timer-events.jsonl")
}

// LogsDir returns the path of the log directory.
func LogsDir(dataDir string) string {
	return filepath.Join(dataDir, "logs")
}

// GlobalLogPath returns the path of the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(LogsDir(dataDir), "taskflow.log")
}

// TaskLogPath returns the path of a task-specific log file.
func TaskLogPath(dataDir, taskID string) string {
	return filepath.Join(LogsDir(dataDir), "task-"+taskID+".log")
}

// ConfigFileName is the name of the TOML configuration file.
const ConfigFileName = "config.toml"
