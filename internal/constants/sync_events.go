package constants

// Mirror events and statuses for the mirror_sync_history table
const (
	MirrorEventCheckIn = "CHECKIN"
	MirrorEventResync  = "RESYNC"
	MirrorEventManual  = "MANUAL"

	MirrorStatusSuccess = "success"
	MirrorStatusFailed  = "failed"
	MirrorStatusSkipped = "skipped"

	// MirrorPayloadType is the "type" field the sheet webhook dispatches on.
	MirrorPayloadType = "presenca"
	// SheetActionFrequencyTable is the read-side action of the sheet webhook.
	SheetActionFrequencyTable = "obterTabelaFrequencia"

	MirrorStream        = "runflow:mirror"
	MirrorConsumerGroup = "mirror-workers"
)
