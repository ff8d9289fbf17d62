package config

import "time"

// Retry configuration constants
const (
	// War API request retry configuration
	APIRequestMaxAttempts       = 3
	APIRequestInitialWait       = 1 * time.Second
	APIRequestMaxWait           = 10 * time.Second
	APIRequestBackoffMultiplier = 2.0
	APIRequestTimeout           = 30 * time.Second

	// Sheet write retry configuration
	SheetWriteMaxAttempts       = 3
	SheetWriteInitialWait       = 1 * time.Second
	SheetWriteMaxWait           = 10 * time.Second
	SheetWriteBackoffMultiplier = 2.0
	SheetWriteTimeout           = 30 * time.Second

	// Archive upload retry configuration
	ArchiveUploadMaxAttempts       = 2
	ArchiveUploadInitialWait       = 2 * time.Second
	ArchiveUploadMaxWait           = 10 * time.Second
	ArchiveUploadBackoffMultiplier = 2.0
	ArchiveUploadTimeout           = 60 * time.Second
)

// RetryConfig defines retry behavior for operations
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// NextWait returns the wait before the given attempt (1-based), capped at MaxWait.
func (rc RetryConfig) NextWait(attempt int) time.Duration {
	wait := rc.InitialWait
	for i := 1; i < attempt; i++ {
		wait = time.Duration(float64(wait) * rc.Multiplier)
		if wait > rc.MaxWait {
			return rc.MaxWait
		}
	}
	if wait > rc.MaxWait {
		return rc.MaxWait
	}
	return wait
}

// ResilienceConfig contains all retry configurations
type ResilienceConfig struct {
	APIRequest    RetryConfig
	SheetWrite    RetryConfig
	ArchiveUpload RetryConfig
}

// DefaultResilienceConfig provides sensible defaults
var DefaultResilienceConfig = ResilienceConfig{
	APIRequest: RetryConfig{
		MaxAttempts: APIRequestMaxAttempts,
		InitialWait: APIRequestInitialWait,
		MaxWait:     APIRequestMaxWait,
		Multiplier:  APIRequestBackoffMultiplier,
		Timeout:     APIRequestTimeout,
	},
	SheetWrite: RetryConfig{
		MaxAttempts: SheetWriteMaxAttempts,
		InitialWait: SheetWriteInitialWait,
		MaxWait:     SheetWriteMaxWait,
		Multiplier:  SheetWriteBackoffMultiplier,
		Timeout:     SheetWriteTimeout,
	},
	ArchiveUpload: RetryConfig{
		MaxAttempts: ArchiveUploadMaxAttempts,
		InitialWait: ArchiveUploadInitialWait,
		MaxWait:     ArchiveUploadMaxWait,
		Multiplier:  ArchiveUploadBackoffMultiplier,
		Timeout:     ArchiveUploadTimeout,
	},
}
