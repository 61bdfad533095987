package api

import (
	"vgtrkvod/internal/catalog"
	"vgtrkvod/internal/history"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type MenuResponse struct {
	Categories []catalog.Category `json:"categories"`
}

type HistoryResponse struct {
	Items []history.Entry `json:"items"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
