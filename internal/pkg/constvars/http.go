package constvars

const (
	MIMETextCSV         = "text/csv"
	MIMEApplicationJSON = "application/json"
	MIMEApplicationZip  = "application/zip"
)

const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusUnprocessableEntity = 422
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusGatewayTimeout      = 504
)

const (
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
)

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodOptions = "OPTIONS"
)
