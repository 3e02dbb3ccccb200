package types

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	ID      string      `json:"id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
