package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRunIDKey         = "run_id"
	LoggingOperationKey     = "operation"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingStatusCodeKey    = "status_code"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingRecordKey        = "record"
	LoggingDatasetKey       = "dataset"
	LoggingReportKey        = "report"
	LoggingFindingsCountKey = "findings_count"
	LoggingOverallKey       = "overall"
	LoggingPathKey          = "path"
	LoggingURLKey           = "url"
	LoggingBytesKey         = "bytes"
	LoggingRedisKey         = "redis_key"
	LoggingLockValueKey     = "lock_value"
	LoggingLockTTLKey       = "lock_ttl"
	LoggingBucketKey        = "bucket"
	LoggingObjectKey        = "object"
	LoggingCronSpecKey      = "cron_spec"
)
