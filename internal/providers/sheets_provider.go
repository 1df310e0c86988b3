package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
)

// maxErrorBody caps how much of an upstream error body is kept for logs.
const maxErrorBody = 2048

// SheetsProvider talks to the spreadsheet webhook (an Apps Script web app).
type SheetsProvider struct {
	WebhookURL string
	Client     *http.Client
	Debug      bool
}

func NewSheetsProvider(webhookURL string, timeout time.Duration, debug bool) *SheetsProvider {
	return &SheetsProvider{
		WebhookURL: webhookURL,
		Client: &http.Client{
			Timeout: timeout,
		},
		Debug: debug,
	}
}

func (p *SheetsProvider) Enabled() bool {
	return p.WebhookURL != ""
}

// PushRecords replaces the sheet contents with records. Only transport
// failures and non-2xx statuses count as errors; the body is not read.
func (p *SheetsProvider) PushRecords(ctx context.Context, records []gormModels.PresenceRecord) error {
	if !p.Enabled() {
		return notConfigured()
	}
	if records == nil {
		records = []gormModels.PresenceRecord{}
	}

	payload, err := json.Marshal(dtos.SheetPushPayload{
		Type:    constants.MirrorPayloadType,
		Records: records,
	})
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return buildHTTPError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchFrequencyTable reads the sheet's own attendance table.
func (p *SheetsProvider) FetchFrequencyTable(ctx context.Context) (*dtos.SheetFrequencyTable, error) {
	if !p.Enabled() {
		return nil, notConfigured()
	}

	u, err := url.Parse(p.WebhookURL)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNotConfigured,
			Message: "Invalid webhook URL",
			Err:     err,
		}
	}
	q := u.Query()
	q.Set("action", constants.SheetActionFrequencyTable)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	resp, err := p.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, buildHTTPError(resp)
	}

	var table dtos.SheetFrequencyTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return nil, &ProviderError{
			Code:       constants.ErrCodeInvalidResponse,
			Message:    constants.GetErrorMessage(constants.ErrCodeInvalidResponse),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	if table.Tabela == nil {
		table.Tabela = []dtos.SheetFrequencyRow{}
	}
	return &table, nil
}

func (p *SheetsProvider) do(req *http.Request) (*http.Response, error) {
	if p.Debug {
		common.LogHTTPRequest(req)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	return resp, nil
}

func buildHTTPError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	code := constants.ErrCodeUpstreamRejected
	if resp.StatusCode == http.StatusTooManyRequests {
		code = constants.ErrCodeRateLimited
	}
	return &ProviderError{
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d from sheet webhook", resp.StatusCode),
		Details:    string(body),
		StatusCode: resp.StatusCode,
	}
}

func notConfigured() error {
	return &ProviderError{
		Code:    constants.ErrCodeNotConfigured,
		Message: constants.GetErrorMessage(constants.ErrCodeNotConfigured),
	}
}
