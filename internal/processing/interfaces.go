package processing

import (
	"context"

	"clan_war_stats/internal/app"
)

// ClanClientInterface defines the clan API client methods used by WarProcessor
type ClanClientInterface interface {
	GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error)
	ResetAPICallCount()
	GetAPICallCount() int64
}

// LedgerStoreInterface defines the snapshot store methods used by HistoryMerger
type LedgerStoreInterface interface {
	Load() *app.WarLedger
	Save(ledger *app.WarLedger) error
	Archive(ledger *app.WarLedger) (string, error)
}

// StandingsExporterInterface defines the sheet export methods used by WarProcessor
type StandingsExporterInterface interface {
	ExportStandings(ctx context.Context, ledger *app.WarLedger) error
}

// DeltaSinkInterface defines the warehouse sink used by WarProcessor
type DeltaSinkInterface interface {
	WriteDayDeltas(ctx context.Context, ledger *app.WarLedger, dayNumber int) error
}

// ArchiveUploaderInterface defines the deployment methods used by HistoryMerger consumers
type ArchiveUploaderInterface interface {
	UploadArchive(localPath string) error
}
