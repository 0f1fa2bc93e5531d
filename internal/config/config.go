package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mrlokans/weread-readwise/internal/weread"
)

var (
	ErrMissingCookie   = errors.New("WEREAD_COOKIE is required")
	ErrMissingToken    = errors.New("READWISE_TOKEN is required")
	ErrMissingUserVID  = errors.New("WEREAD_USER_VID is not set and no wr_vid found in WEREAD_COOKIE")
	ErrInvalidRecency  = errors.New("ONLY_RECENT_DAYS must be a non-negative integer")
	ErrMissingAPIToken = errors.New("API_TOKEN is required to serve the HTTP API")
)

type (
	Config struct {
		WeRead
		Readwise
		Sync
		Schedule
		Audit
		HTTP
		Tasks
		Log
		Global

		// errs collects values that were present but could not be parsed.
		errs []error
	}

	WeRead struct {
		Cookie  string
		UserVID string
		APIURL  string
		WebURL  string
	}
	Readwise struct {
		Token  string
		APIURL string
	}
	Sync struct {
		RecentDays int // 0 disables the recency filter
		DryRun     bool
		ChunkSize  int
	}
	Schedule struct {
		Cron string // 5-field cron, used by serve only
	}
	Audit struct {
		Dir           string // preview payload snapshots, "" disables
		DatabasePath  string // run journal, "" disables
		RetentionDays int
	}
	HTTP struct {
		Port     int32
		Host     string
		APIToken string // bearer token for /api, required by serve
	}
	Tasks struct {
		DatabasePath    string
		Workers         int
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		Retention       time.Duration
	}
	Log struct {
		Level string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// Load reads .env files and then builds the configuration from the
// environment.
func Load() (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}
	return NewConfig(), nil
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("weread_api_url", weread.DefaultAPIURL)
	v.SetDefault("weread_web_url", weread.DefaultWebURL)
	v.SetDefault("readwise_api_url", DefaultReadwiseAPIURL)
	v.SetDefault("sync_chunk_size", DefaultChunkSize)
	v.SetDefault("sync_schedule", DefaultSyncSchedule)
	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_database_path", "")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("log_level", "info")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	// Task queue defaults. One worker keeps serve-mode runs sequential.
	v.SetDefault("tasks_database_path", DefaultTasksDatabasePath)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_timeout", "30m")
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "168h")

	cfg := &Config{
		WeRead: WeRead{
			Cookie:  strings.TrimSpace(v.GetString("WEREAD_COOKIE")),
			UserVID: strings.TrimSpace(v.GetString("WEREAD_USER_VID")),
			APIURL:  v.GetString("WEREAD_API_URL"),
			WebURL:  v.GetString("WEREAD_WEB_URL"),
		},
		Readwise: Readwise{
			Token:  strings.TrimSpace(v.GetString("READWISE_TOKEN")),
			APIURL: v.GetString("READWISE_API_URL"),
		},
		Sync: Sync{
			DryRun:    v.GetString("DRY_RUN") == "1",
			ChunkSize: v.GetInt("SYNC_CHUNK_SIZE"),
		},
		Schedule: Schedule{
			Cron: v.GetString("SYNC_SCHEDULE"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			DatabasePath:  v.GetString("AUDIT_DATABASE_PATH"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		HTTP: HTTP{
			Port:     v.GetInt32("PORT"),
			Host:     v.GetString("HOST"),
			APIToken: strings.TrimSpace(v.GetString("API_TOKEN")),
		},
		Tasks: Tasks{
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			Retention:       v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}

	days, err := ParseRecentDays(v.GetString("ONLY_RECENT_DAYS"))
	if err != nil {
		cfg.errs = append(cfg.errs, err)
	}
	cfg.Sync.RecentDays = days

	return cfg
}

// ParseRecentDays parses ONLY_RECENT_DAYS. Empty means no filter.
func ParseRecentDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidRecency, raw)
	}
	return days, nil
}

// OverrideRecentDays replaces the window from ONLY_RECENT_DAYS, including an
// invalid value that would otherwise fail validation.
func (c *Config) OverrideRecentDays(days int) {
	c.Sync.RecentDays = days
	kept := c.errs[:0]
	for _, err := range c.errs {
		if !errors.Is(err, ErrInvalidRecency) {
			kept = append(kept, err)
		}
	}
	c.errs = kept
}

// ResolveUserVID returns the explicit user id, falling back to the wr_vid
// cookie.
func (c *Config) ResolveUserVID() string {
	if c.WeRead.UserVID != "" {
		return c.WeRead.UserVID
	}
	return weread.UserVIDFromCookie(c.WeRead.Cookie)
}

// ValidateWeRead checks what is needed to read from WeRead.
func (c *Config) ValidateWeRead() error {
	if c.WeRead.Cookie == "" {
		return ErrMissingCookie
	}
	if c.ResolveUserVID() == "" {
		return ErrMissingUserVID
	}
	return nil
}

// ValidateReadwise checks what is needed to write to Readwise.
func (c *Config) ValidateReadwise() error {
	if c.Readwise.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Validate reports every problem that prevents a sync run, joined.
func (c *Config) Validate() error {
	errs := []error{c.ValidateWeRead(), c.ValidateReadwise()}
	errs = append(errs, c.errs...)
	return errors.Join(errs...)
}

// ValidateServe checks what serve mode needs on top of a sync run.
func (c *Config) ValidateServe() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.HTTP.APIToken == "" {
		errs = append(errs, ErrMissingAPIToken)
	}
	return errors.Join(errs...)
}

// ShutdownTimeout is the graceful shutdown budget for serve mode.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Global.ShutdownTimeoutInSeconds) * time.Second
}
