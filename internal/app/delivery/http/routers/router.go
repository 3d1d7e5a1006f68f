package routers

import (
	"fmt"
	"time"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/delivery/http/controllers"
	"ecg-labeling-service/internal/app/delivery/http/middlewares"
	"ecg-labeling-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	findingsController *controllers.FindingsController,
	labelsController *controllers.LabelsController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{constvars.MethodGet, constvars.MethodPost, constvars.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", constvars.HeaderXRequestID},
		ExposedHeaders:   []string{constvars.HeaderXRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/"+constvars.ResourceReports, func(r chi.Router) {
				attachReportRoutes(r, internalConfig, middlewares, findingsController)
			})

			r.Route("/"+constvars.ResourceDiagnosisCodes, func(r chi.Router) {
				attachDiagnosisCodeRoutes(r, findingsController)
			})

			if labelsController != nil {
				r.Route("/"+constvars.ResourceLabels, func(r chi.Router) {
					attachLabelRoutes(r, labelsController)
				})
			}
		})
	})
}
