package constvars

// Validation messages for clients, mapped by validator tag.
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of %s",
	"dive":     "contains an invalid item",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientMalformedReport               = "report must look like '<label>: <finding>, <finding>, ...'"
	ErrClientEmptyFindings                 = "report does not contain any finding"
	ErrClientUnhandledContinuation         = "report starts with a continuation clause"
	ErrClientResourceNotFound              = "requested resource was not found"
	ErrClientDownloadInProgress            = "another download is already running"
	ErrClientTooManyRequests               = "too many requests, you are blocked temporarily"
)

// Error messages for developers
const (
	ErrDevInvalidInput           = "invalid input"
	ErrDevValidationFailed       = "validation failed"
	ErrDevCannotParseJSON        = "cannot parse JSON"
	ErrDevCannotMarshalJSON      = "cannot marshal JSON"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerProcess          = "failed to process data on server"
	ErrDevTooManyRequests        = "rate limit exceeded for %s"
	ErrDevPanicRecovered         = "recovered from panic"

	// Report extraction
	ErrDevMalformedReport        = "malformed report"
	ErrDevEmptyFindings          = "empty findings sequence"
	ErrDevUnhandledContinuation  = "continuation clause without preceding finding"
	ErrDevCannotParseHeader      = "cannot parse WFDB header %s"
	ErrDevCannotParseDxCodes     = "cannot parse Dx codes of record %s"
	ErrDevCannotWriteLabelsTable = "cannot write labels table %s"

	// Database
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"
	ErrDevDBFailedToUpsertDocument = "failed to upsert document into database"

	// Redis
	ErrDevRedisSetData   = "failed to set data into redis"
	ErrDevRedisDelete    = "failed to delete data from redis"
	ErrDevRedisGetNoData = "no data on redis for key %s"

	// Minio
	ErrDevMinioFailedToCreateObject = "failed to create object on bucket %s"

	// RabbitMQ
	ErrDevRabbitMQOpenChannel    = "failed to open rabbitmq channel"
	ErrDevRabbitMQDeclareQueue   = "failed to declare rabbitmq queue %s"
	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"

	// Datasets
	ErrDevDatasetUnknown        = "unknown dataset %s"
	ErrDevDatasetDownload       = "failed to download dataset %s"
	ErrDevDatasetLocked         = "dataset download lock held by another process"
	ErrDevEntryDownload         = "failed to download entry %s"
	ErrDevEntryNotZip           = "entry %s is not a zip archive"
	ErrDevUnpackArchive         = "failed to unpack archive %s"
	ErrDevCopyDirectory         = "failed to copy directory %s"
	ErrDevDatasetsConfigRead    = "failed to read datasets config %s"
	ErrDevDatasetsConfigWrite   = "failed to write datasets config %s"
	ErrDevLabeledRecordNotFound = "labeled record %s/%s not found"
	ErrDevRecordsList           = "failed to list records in %s"
)
