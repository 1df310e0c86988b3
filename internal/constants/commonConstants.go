package constants

type (
	APIStatus    string
	CachePrefix  string
	RecordStatus string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixMatrix  CachePrefix = "MATRIX_"
	CachePrefixSession CachePrefix = "ADMIN_SESSION_"

	// RecordStatusValid is the only status the check-in flow produces.
	RecordStatusValid   RecordStatus = "valid"
	RecordStatusInvalid RecordStatus = "invalid"
)

const (
	AdminSessionCookie = "runflow_admin"
	AdminSessionHeader = "X-Admin-Session"

	ExportSheetName      = "Frequência Cross Country"
	ExportFilenamePrefix = "Frequencia_"
)

func (c CachePrefix) Key(suffix string) string {
	return string(c) + suffix
}
