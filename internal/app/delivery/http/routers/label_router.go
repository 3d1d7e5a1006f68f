package routers

import (
	"fmt"

	"ecg-labeling-service/internal/app/delivery/http/controllers"
	"ecg-labeling-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachLabelRoutes(router chi.Router, labelsController *controllers.LabelsController) {
	router.Get(fmt.Sprintf("/{%s}/{%s}", constvars.URLParamDataset, constvars.URLParamRecord), labelsController.FindLabeledRecord)
}
