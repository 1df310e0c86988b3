package api

import (
	"errors"
	"net/http"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/models/dtos"
	"cross-country/runflow/internal/services"
)

// CheckIn handles POST /api/v1/presence
func (h *Handlers) CheckIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CheckInRequest
		if err := h.decodeAndValidate(r, &req); err != nil {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}

		result, err := h.deps.Services.CheckIn.CheckIn(r.Context(), req)
		if err != nil {
			var ciErr *services.CheckInError
			if errors.As(err, &ciErr) {
				data := &dtos.CheckInResponse{Kind: string(ciErr.Kind), Details: checkInDetails(ciErr.Details)}
				common.RespondErrorWithData(w, initTime, ciErr, "", data, ciErr.Kind.HTTPStatus())
				return
			}
			logging.Error("Check-in failed", "error", err.Error())
			common.RespondError(w, initTime, nil, "Falha ao registrar presença.", http.StatusInternalServerError)
			return
		}

		rec := result.Record
		common.RespondSuccess(w, initTime, result.Message, &dtos.CheckInResponse{
			RecordID:      rec.ID,
			Name:          rec.Name,
			DateString:    rec.DateString,
			TimeString:    rec.TimeString,
			MonthKey:      rec.MonthKey,
			AdminOverride: result.AdminOverride,
			Details:       checkInDetails(result.Details),
		}, http.StatusCreated)
	}
}

func checkInDetails(d *services.ValidationDetails) *dtos.CheckInDetails {
	if d == nil {
		return nil
	}
	return &dtos.CheckInDetails{
		Distance:    float64(common.RoundMeters(d.DistanceMeters)),
		IsExemptDay: d.IsExemptDay,
		Day:         d.DayName,
		Hour:        d.Hour,
	}
}

// TrainingPolicy handles GET /api/v1/config/training
func (h *Handlers) TrainingPolicy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		policy := h.deps.Config.Training

		days := make([]int, len(policy.AllowedDays))
		names := make([]string, len(policy.AllowedDays))
		for i, d := range policy.AllowedDays {
			days[i] = int(d)
			names[i] = common.DayName(d)
		}

		common.RespondSuccess(w, initTime, services.ScheduleMessage(policy), &dtos.TrainingPolicyResponse{
			CenterLat:    policy.CenterLat,
			CenterLng:    policy.CenterLng,
			RadiusMeters: policy.RadiusMeters,
			AllowedDays:  days,
			DayNames:     names,
			StartHour:    policy.StartHour,
			EndHour:      policy.EndHour,
			ExemptDay:    int(policy.ExemptDay),
			Timezone:     policy.Timezone,
		})
	}
}

// Roster handles GET /api/v1/roster
func (h *Handlers) Roster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		roster := h.deps.Services.Roster
		common.RespondSuccess(w, initTime, "", &dtos.RosterResponse{Athletes: roster.Names(), Count: roster.Size()})
	}
}
