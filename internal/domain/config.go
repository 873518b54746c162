package domain

// Config is the application configuration loaded from TOML.
// Fields are ordered to minimize memory padding.
type Config struct {
	Timer  TimerConfig  `toml:"timer"`
	Focus  FocusConfig  `toml:"focus"`
	Chat   ChatConfig   `toml:"chat"`
	Gamify GamifyConfig `toml:"gamify"`
	Log    LogConfig    `toml:"log"`
}

// TimerConfig configures the focus timer.
type TimerConfig struct {
	DefaultMinutes int `toml:"default_minutes"` // Default focus block length
	BreakMinutes   int `toml:"break_minutes"`   // Suggested break length
	GraceSeconds   int `toml:"grace_seconds"`   // Stale-tick grace window after stop
}

// FocusConfig configures focus-session behavior.
type FocusConfig struct {
	InterleaveMinutes int `toml:"interleave_minutes"` // Learning-mode topic-switch nudge
}

// ChatConfig configures chat transcript retention.
type ChatConfig struct {
	RetentionDays int `toml:"retention_days"`
	MaxMessages   int `toml:"max_messages"` // Per-task cap
}

// GamifyConfig configures the XP ledger.
type GamifyConfig struct {
	BaseXP int `toml:"base_xp"` // XP granted per completion before minute bonus
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default configuration values.
const (
	DefaultTimerMinutes      = 25
	DefaultBreakMinutes      = 5
	DefaultGraceSeconds      = 2
	DefaultInterleaveMinutes = 25
	DefaultChatRetentionDays = 7
	DefaultChatMaxMessages   = 50
	DefaultBaseXP            = 10
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes: DefaultTimerMinutes,
			BreakMinutes:   DefaultBreakMinutes,
			GraceSeconds:   DefaultGraceSeconds,
		},
		Focus: FocusConfig{
			InterleaveMinutes: DefaultInterleaveMinutes,
		},
		Chat: ChatConfig{
			RetentionDays: DefaultChatRetentionDays,
			MaxMessages:   DefaultChatMaxMessages,
		},
		Gamify: GamifyConfig{
			BaseXP: DefaultBaseXP,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
