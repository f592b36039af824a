package export

import "time"

// Config holds configuration for the export engine.
type Config struct {
	// BatchSize is the maximum number of entities per import job.
	BatchSize int `mapstructure:"batch_size" default:"100"`
	// PollIntervalMS is the delay between job-status polls, in milliseconds.
	PollIntervalMS int `mapstructure:"poll_interval_ms" default:"2000"`
	// MaxPollAttempts bounds the poll loop; the product with PollIntervalMS is
	// the effective per-job timeout.
	MaxPollAttempts int `mapstructure:"max_poll_attempts" default:"150"`
	// Concurrency bounds the number of asset types exported at once.
	Concurrency int `mapstructure:"concurrency" default:"3"`
	// ArchiveReports enables uploading run reports to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"true"`
}

// PollInterval returns the poll delay as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}
