package api

import (
	"net/http"
	"net/url"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
	"cross-country/runflow/internal/providers"
	"cross-country/runflow/internal/services"
)

// exportPath is the signed download route
const exportPath = "/export/attendance.xlsx"

// Attendance handles GET /api/v1/admin/attendance?month=YYYY-MM
func (h *Handlers) Attendance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		month, err := h.monthParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		matrix, err := h.deps.Services.Attendance.Matrix(r.Context(), month)
		if err != nil {
			logging.Error("Failed to build attendance matrix", "month", month, "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao montar a tabela de frequência.", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, matrix.MonthLabel, matrix)
	}
}

// Months handles GET /api/v1/admin/months
func (h *Handlers) Months() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		months, err := h.deps.Services.Attendance.AvailableMonths(r.Context())
		if err != nil {
			logging.Error("Failed to list months", "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao listar os meses.", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "", months)
	}
}

// Records handles GET /api/v1/admin/records?month=YYYY-MM
func (h *Handlers) Records() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		month, err := h.monthParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		records, err := h.deps.Services.Attendance.Records(r.Context(), month)
		if err != nil {
			logging.Error("Failed to list records", "month", month, "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao listar os registros.", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []gormModels.PresenceRecord{}
		}
		common.RespondSuccess(w, initTime, services.MonthLabel(month), records)
	}
}

// ExportLink handles POST /api/v1/admin/export-link?month=YYYY-MM
func (h *Handlers) ExportLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		month, err := h.monthParam(r)
		if err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		token, expiresAt, err := h.deps.Services.URLSigner.SignExport(month, h.deps.Config.Admin.ExportLinkTTL)
		if err != nil {
			logging.Error("Failed to sign export link", "month", month, "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao gerar o link de exportação.", http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "", &dtos.ExportLinkResponse{
			URL:       exportPath + "?token=" + url.QueryEscape(token),
			Filename:  services.ExportFilename(month),
			ExpiresAt: expiresAt,
		})
	}
}

// MirrorStatus handles GET /api/v1/admin/mirror/status
func (h *Handlers) MirrorStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		status, err := h.deps.Services.Mirror.Status(r.Context())
		if err != nil {
			logging.Error("Failed to read mirror status", "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao consultar o espelhamento.", http.StatusInternalServerError)
			return
		}
		common.RespondSuccess(w, initTime, "", status)
	}
}

// MirrorSync handles POST /api/v1/admin/mirror/sync
func (h *Handlers) MirrorSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ticket := h.deps.Services.Mirror.RequestSync(r.Context(), constants.MirrorEventManual)
		if !ticket.Queued {
			common.RespondErrorWithData(w, initTime, nil, "Falha ao agendar o espelhamento.", ticket, http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, "Espelhamento agendado.", ticket, http.StatusAccepted)
	}
}

// SheetFrequencyTable handles GET /api/v1/admin/sheet/frequency-table.
// Upstream failures are 502; a missing webhook URL is 503.
func (h *Handlers) SheetFrequencyTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		table, err := h.deps.Services.Mirror.FrequencyTable(r.Context())
		if err != nil {
			if providers.IsNotConfigured(err) {
				common.RespondError(w, initTime, nil, constants.MsgMirrorNotConfigured, http.StatusServiceUnavailable)
				return
			}
			logging.Warn("Sheet frequency table read failed", "error", err.Error())
			common.RespondError(w, initTime, err, "", http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "", table)
	}
}
