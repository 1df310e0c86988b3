package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
)

type Handlers struct {
	deps     *Dependencies
	validate *validator.Validate
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags
func (h *Handlers) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New(constants.MsgInvalidBody)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%s Campos: %s", constants.MsgInvalidBody, strings.Join(fields, ", "))
		}
		return errors.New(constants.MsgInvalidBody)
	}
	return nil
}

// monthParam returns ?month=, defaulting to the current training month
func (h *Handlers) monthParam(r *http.Request) (string, error) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		return h.deps.Services.Attendance.CurrentMonth(), nil
	}
	if _, _, err := common.ParseMonthKey(month); err != nil {
		return "", errors.New(constants.MsgInvalidMonth)
	}
	return month, nil
}
