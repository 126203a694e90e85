package kafka

import (
	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/usecase"
)

const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

type RequestPayload struct {
	SchemaVersion int    `json:"schema_version"`
	CorrelationID string `json:"correlation_id"`
	ReplyTo       string `json:"reply_to"`
	Status        string `json:"status,omitempty"`
	Category      string `json:"category,omitempty"`
	Locale        string `json:"locale,omitempty"`
	Code          string `json:"code,omitempty"`
}

type ResponsePayload struct {
	SchemaVersion int                    `json:"schema_version"`
	CorrelationID string                 `json:"correlation_id"`
	Status        string                 `json:"status"`
	ErrorCode     string                 `json:"error_code,omitempty"`
	ErrorMessage  string                 `json:"error_message,omitempty"`
	View          *usecase.CatalogView   `json:"view,omitempty"`
	Coupon        *catalog.DisplayRecord `json:"coupon,omitempty"`
}
