package dtos

import gormModels "cross-country/runflow/internal/models/gorm"

// SheetPushPayload is the body POSTed to the sheet webhook. Records is the full list.
type SheetPushPayload struct {
	Type    string                      `json:"type"`
	Records []gormModels.PresenceRecord `json:"records"`
}

// SheetFrequencyRow is one row of the sheet's read-side table.
type SheetFrequencyRow struct {
	Data      string       `json:"data"`
	DiaSemana string       `json:"diaSemana"`
	Atleta    string       `json:"atleta"`
	Presenca  FlexibleBool `json:"presenca"`
	Total     int          `json:"total"`
}

type SheetFrequencyTable struct {
	Tabela []SheetFrequencyRow `json:"tabela"`
}
