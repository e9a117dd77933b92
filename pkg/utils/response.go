package utils

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody 提示信息响应体
type MessageBody struct {
	Message string `json:"message"`
}

// RespondJSON 先完整编码再写出，编码失败时返回 500 而不是半截响应
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		log.Printf("[http] failed to encode %T response: %v", payload, err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorBody{Error: "internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}

// RespondMessage 发送提示信息响应
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageBody{Message: message})
}
