package constvars

import "time"

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	ResourceReports        = "reports"
	ResourceDiagnosisCodes = "diagnosis-codes"
	ResourceLabels         = "labels"
)

const (
	DatasetChallenge2020 = "challenge-2020"
	DatasetNorwegian     = "norwegian-athlete-ecg"
	DatasetPF12RED       = "pf12red"
	DatasetMIMICIVECG    = "mimic-iv-ecg"
)

const (
	MongoCollectionLabeledRecords = "labeled_records"
)

const (
	RedisKeyFindingsPrefix     = "ecg:findings:"
	RedisKeyRelabelLeaderLock  = "ecg:relabel:leader"
	RedisKeyDatasetDownloadLck = "ecg:datasets:download"

	FindingsCacheExpiration = 24 * time.Hour
	DownloadLockExpiration  = 12 * time.Hour
	RelabelLockExpiration   = 30 * time.Minute
)

const (
	ZipExtension = ".zip"
)

const (
	URLParamDataset = "dataset"
	URLParamRecord  = "record"
)
