package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadExport handles GET /export/attendance.xlsx?token=. The signed token
// stands in for the admin session so a plain browser link works.
func (h *Handlers) DownloadExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		month, err := h.deps.Services.URLSigner.ValidateExport(r.URL.Query().Get("token"))
		if err != nil {
			logging.Debug("Export link rejected", "error", err.Error())
			common.RespondError(w, initTime, nil, constants.MsgInvalidExportLink, http.StatusUnauthorized)
			return
		}

		matrix, err := h.deps.Services.Attendance.Matrix(r.Context(), month)
		if err != nil {
			logging.Error("Failed to build export matrix", "month", month, "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao gerar a planilha.", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := services.WriteXLSX(&buf, matrix); err != nil {
			logging.Error("Failed to write xlsx", "month", month, "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao gerar a planilha.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename(month)+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
