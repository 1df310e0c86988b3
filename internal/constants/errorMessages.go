package constants

// User-facing check-in messages (pt-BR, shown verbatim by the client).
const (
	MsgEmptyName             = "Por favor, informe seu nome."
	MsgMissingNameBeforeCode = "Por favor, informe um nome antes da senha."
	MsgLocationUnsupported   = "Geolocalização não suportada."
	MsgLocationDenied        = "Ative o GPS para registrar sua presença."
	MsgLocationGeneric       = "Erro de localização."
	MsgInvalidCoordinates    = "Coordenadas inválidas."
	MsgNotAllowed            = "Registro não permitido."

	// MsgOutsideScheduleFmt takes the day list and the start and end hours.
	MsgOutsideScheduleFmt = "Registro não permitido fora dos dias e horários de treino (%s das %02dh às %02dh)."
	// MsgOutsideRadiusFmt takes the rounded distance and the configured radius.
	MsgOutsideRadiusFmt = "Você está fora do raio permitido (%dm do ponto central). O limite é de %dm."

	MsgCheckInConfirmedFmt = "Presença confirmada às %s!"
	MsgAdminForcedFmt      = "[ADMIN] Registro forçado para %s!"
)

// Admin and API messages.
const (
	MsgInvalidCredentials  = "Credenciais inválidas."
	MsgUnauthorized        = "Acesso restrito ao administrador."
	MsgInvalidMonth        = "Mês inválido, use o formato AAAA-MM."
	MsgInvalidBody         = "Corpo da requisição inválido."
	MsgTooManyRequests     = "Muitas requisições, tente novamente em instantes."
	MsgInvalidExportLink   = "Link de exportação inválido ou expirado."
	MsgMirrorNotConfigured = "URL da planilha não configurada."
)
