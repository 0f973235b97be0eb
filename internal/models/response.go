package models

// Response is the uniform result of a service operation
// Failed responses carry Code and Message, successful ones carry Data
type Response struct {
	Status   bool   `json:"status"`
	HTTPCode int    `json:"httpCode"`
	Data     any    `json:"data,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}
