package dto

// ErrorResponse respuesta de error uniforme del API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TokenRequest solicitud de un token de acceso al API de reportes.
type TokenRequest struct {
	ClientID  string `json:"client_id"`
	AccessKey string `json:"access_key"`
}

// TokenResponse token emitido.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}

// InboundSMSRequest mensaje entrante reenviado por el gateway SMS.
type InboundSMSRequest struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
}

// InboundSMSResponse acuse del procesamiento de un mensaje entrante.
type InboundSMSResponse struct {
	Accepted bool `json:"accepted"`
}
