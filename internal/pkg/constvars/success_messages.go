package constvars

const (
	ResponseUnknown = "unknown"

	ExtractFindingsSuccessMessage      = "findings extracted successfully"
	ExtractFindingsBatchSuccessMessage = "batch findings extracted successfully"
	GetDiagnosisCodesSuccessMessage    = "diagnosis codes fetched successfully"
	GetLabeledRecordSuccessMessage     = "labeled record fetched successfully"
)
