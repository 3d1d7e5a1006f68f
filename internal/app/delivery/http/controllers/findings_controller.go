package controllers

import (
	"context"
	"errors"
	"net/http"

	"ecg-labeling-service/internal/app/config"
	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/exceptions"
	"ecg-labeling-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type FindingsController struct {
	Log             *zap.Logger
	FindingsUsecase contracts.FindingsUsecase
	InternalConfig  *config.InternalConfig
}

func NewFindingsController(logger *zap.Logger, findingsUsecase contracts.FindingsUsecase, internalConfig *config.InternalConfig) *FindingsController {
	return &FindingsController{
		Log:             logger,
		FindingsUsecase: findingsUsecase,
		InternalConfig:  internalConfig,
	}
}

func (ctrl *FindingsController) ExtractFindings(w http.ResponseWriter, r *http.Request) {
	request := new(requests.ExtractFindings)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.InternalConfig.App.RequestTimeout())
	defer cancel()

	response, err := ctrl.FindingsUsecase.ExtractFindings(ctx, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ExtractFindingsSuccessMessage, response)
}

func (ctrl *FindingsController) ExtractFindingsBatch(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BatchExtractFindings)
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.InternalConfig.App.RequestTimeout())
	defer cancel()

	response, err := ctrl.FindingsUsecase.ExtractFindingsBatch(ctx, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ExtractFindingsBatchSuccessMessage, response)
}

func (ctrl *FindingsController) ListDiagnosisCodes(w http.ResponseWriter, r *http.Request) {
	response := ctrl.FindingsUsecase.ListDiagnosisCodes(r.Context())
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetDiagnosisCodesSuccessMessage, response)
}
