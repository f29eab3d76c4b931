package dto

// ErrorResponse — стандартный ответ с ошибкой.
// Code — машиночитаемый код из таксономии ошибок приложения.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse — стандартный успешный ответ.
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// UploadResponse — результат загрузки изображения.
type UploadResponse struct {
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// HealthResponse — ответ проверки живости.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}
