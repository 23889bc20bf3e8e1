package utils

// APIResponse adalah format standar JSON untuk seluruh endpoint.
// Contoh sukses : { "success": true,  "message": "Proposal berhasil dibuat", "data": { ... } }
// Contoh gagal  : { "success": false, "message": "Proposal tidak ditemukan", "errors": "record not found" }
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// BuildResponseSuccess dipakai saat request berhasil (HTTP 200/201).
func BuildResponseSuccess(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// BuildResponseFailed dipakai saat terjadi error (HTTP 400, 403, 404, 409, 500).
// Detail teknis masuk ke field errors; message tetap pesan untuk user.
func BuildResponseFailed(message string, err interface{}) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
		Errors:  err,
	}
}
