package processing

import (
	"clan_war_stats/internal/clanapi"
	"clan_war_stats/internal/storage"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ ClanClientInterface  = (*clanapi.Client)(nil)
	_ LedgerStoreInterface = (*storage.LedgerStore)(nil)
)
