package routers

import (
	"time"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/delivery/http/controllers"
	"ecg-labeling-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachReportRoutes(router chi.Router, internalConfig *config.InternalConfig, mw *middlewares.Middlewares, findingsController *controllers.FindingsController) {
	batchLimiter := middlewares.NewRateLimiter(
		mw.Log,
		internalConfig.App.MaxTimeRequestsPerSeconds,
		time.Second,
		time.Minute,
	)

	router.Post("/findings", findingsController.ExtractFindings)
	router.With(batchLimiter.Limit).Post("/findings/batch", findingsController.ExtractFindingsBatch)
}

func attachDiagnosisCodeRoutes(router chi.Router, findingsController *controllers.FindingsController) {
	router.Get("/", findingsController.ListDiagnosisCodes)
}
