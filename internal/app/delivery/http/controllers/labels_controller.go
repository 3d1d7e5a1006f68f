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

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LabelsController struct {
	Log            *zap.Logger
	LabelsUsecase  contracts.LabelsUsecase
	InternalConfig *config.InternalConfig
}

func NewLabelsController(logger *zap.Logger, labelsUsecase contracts.LabelsUsecase, internalConfig *config.InternalConfig) *LabelsController {
	return &LabelsController{
		Log:            logger,
		LabelsUsecase:  labelsUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *LabelsController) FindLabeledRecord(w http.ResponseWriter, r *http.Request) {
	request := &requests.FindLabeledRecord{
		Dataset: utils.SanitizeRecordKey(chi.URLParam(r, constvars.URLParamDataset)),
		Record:  utils.SanitizeRecordKey(chi.URLParam(r, constvars.URLParamRecord)),
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.InternalConfig.App.RequestTimeout())
	defer cancel()

	response, err := ctrl.LabelsUsecase.FindLabeledRecord(ctx, request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetLabeledRecordSuccessMessage, response)
}
