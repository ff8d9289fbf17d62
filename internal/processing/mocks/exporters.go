package mocks

import (
	"context"

	"clan_war_stats/internal/app"
)

// MockStandingsExporter is a test double for the sheets exporter
type MockStandingsExporter struct {
	ExportError  error
	ExportCalled int
	LastExported *app.WarLedger
}

func NewMockStandingsExporter() *MockStandingsExporter {
	return &MockStandingsExporter{}
}

func (m *MockStandingsExporter) ExportStandings(ctx context.Context, ledger *app.WarLedger) error {
	m.ExportCalled++
	m.LastExported = ledger
	return m.ExportError
}

// MockDeltaSink is a test double for the warehouse sink
type MockDeltaSink struct {
	WriteError    error
	WriteCalled   int
	LastDayNumber int
}

func NewMockDeltaSink() *MockDeltaSink {
	return &MockDeltaSink{}
}

func (m *MockDeltaSink) WriteDayDeltas(ctx context.Context, ledger *app.WarLedger, dayNumber int) error {
	m.WriteCalled++
	m.LastDayNumber = dayNumber
	return m.WriteError
}

// MockArchiveUploader is a test double for the SCP archive uploader
type MockArchiveUploader struct {
	UploadError  error
	UploadCalled int
	LastPath     string
}

func NewMockArchiveUploader() *MockArchiveUploader {
	return &MockArchiveUploader{}
}

func (m *MockArchiveUploader) UploadArchive(localPath string) error {
	m.UploadCalled++
	m.LastPath = localPath
	return m.UploadError
}
