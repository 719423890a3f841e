package dto

// Envelope wraps every API response. Status mirrors the HTTP status code.
type Envelope struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Error   interface{} `json:"error"`
	Status  int         `json:"status"`
}
