package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/domain"
	"github.com/vfg2006/media-pacing-api/pkg/apiErrors"
	"github.com/vfg2006/media-pacing-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 8 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.L.WithError(err).Warn("erro ao serializar resposta")
	}
}

// decodeBody lê o corpo JSON da requisição; corpo vazio ou malformado vira erro de validação
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return domain.NewValidationError("body", "corpo da requisição vazio")
	}

	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(target)
	switch {
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("body", "corpo da requisição vazio")
	case err != nil:
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

// writeServiceError traduz a taxonomia de erros dos serviços para status HTTP
func writeServiceError(w http.ResponseWriter, logger log.Logger, err error, message string) {
	switch {
	case domain.IsValidationError(err):
		logger.WithError(err).Warn(message)
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case warehouse.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		logger.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrWarehouseTimeout, "Consulta ao warehouse excedeu o tempo limite", nil)
	case warehouse.IsFatal(err):
		logger.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Warehouse indisponível", nil)
	case errors.Is(err, context.Canceled):
		logger.WithError(err).Info(message)
		apiErrors.WriteError(w, apiErrors.ErrCommunication, "Requisição cancelada", nil)
	default:
		logger.WithError(err).Error(message)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
	}
}

// parseDateParam lê um parâmetro de data opcional da query string
func parseDateParam(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, nil
	}

	date, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, domain.NewValidationError(name, "data inválida, use YYYY-MM-DD")
	}
	return date, nil
}
