package config

import (
	"testing"
	"time"
)

func TestDefaultResilienceConfig(t *testing.T) {
	if DefaultResilienceConfig.APIRequest.MaxAttempts != 3 {
		t.Errorf("Expected default APIRequest MaxAttempts 3, got %d", DefaultResilienceConfig.APIRequest.MaxAttempts)
	}

	if DefaultResilienceConfig.APIRequest.InitialWait != 1*time.Second {
		t.Errorf("Expected default APIRequest InitialWait 1s, got %v", DefaultResilienceConfig.APIRequest.InitialWait)
	}

	if DefaultResilienceConfig.APIRequest.Timeout != 30*time.Second {
		t.Errorf("Expected default APIRequest Timeout 30s, got %v", DefaultResilienceConfig.APIRequest.Timeout)
	}

	if DefaultResilienceConfig.SheetWrite.MaxAttempts != 3 {
		t.Errorf("Expected default SheetWrite MaxAttempts 3, got %d", DefaultResilienceConfig.SheetWrite.MaxAttempts)
	}

	if DefaultResilienceConfig.ArchiveUpload.MaxAttempts != 2 {
		t.Errorf("Expected default ArchiveUpload MaxAttempts 2, got %d", DefaultResilienceConfig.ArchiveUpload.MaxAttempts)
	}
}

func TestRetryConfigNextWait(t *testing.T) {
	rc := RetryConfig{
		MaxAttempts: 5,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}

	testCases := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped at MaxWait
		{6, 10 * time.Second},
	}

	for _, tc := range testCases {
		if got := rc.NextWait(tc.attempt); got != tc.expected {
			t.Errorf("NextWait(%d): expected %v, got %v", tc.attempt, tc.expected, got)
		}
	}
}

func TestRetryConfigNextWaitRespectsMaxWaitBelowInitial(t *testing.T) {
	rc := RetryConfig{
		InitialWait: 5 * time.Second,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}

	if got := rc.NextWait(1); got != 2*time.Second {
		t.Errorf("Expected first wait capped at 2s, got %v", got)
	}
}
