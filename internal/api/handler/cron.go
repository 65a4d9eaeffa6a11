package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/media-pacing-api/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypePacingWarmup = "pacing-warmup"
	CronJobTypeAll          = "all"
)

// CronJob é o contrato comum dos serviços agendados que podem ser disparados manualmente
type CronJob interface {
	TriggerManualSync(ctx context.Context)
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	PacingWarmupService CronJob
	// Contexto da aplicação: a execução manual não deve morrer junto com a requisição
	AppContext context.Context
}

func (s CronJobServices) appContext() context.Context {
	if s.AppContext == nil {
		return context.Background()
	}
	return s.AppContext
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypePacingWarmup, CronJobTypeAll:
			if services.PacingWarmupService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de aquecimento do cache de pacing não disponível", nil)
				return
			}
			services.PacingWarmupService.TriggerManualSync(services.appContext())
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: pacing-warmup, all", nil)
			return
		}

		// Responder com sucesso
		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.PacingWarmupService != nil {
			status[CronJobTypePacingWarmup] = services.PacingWarmupService.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}
