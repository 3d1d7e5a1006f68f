package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return uuid.NewString()
}

func GenerateRunID() string {
	return uuid.NewString()
}

// GenerateReportCacheKey hashes the report together with the extraction
// switches so results for different options never collide.
func GenerateReportCacheKey(prefix, report string, followOn, splitAnd, wholeWordAnd bool) string {
	hash := sha256.New()
	hash.Write([]byte(report))
	hash.Write([]byte{0})
	hash.Write([]byte(strconv.FormatBool(followOn) + strconv.FormatBool(splitAnd) + strconv.FormatBool(wholeWordAnd)))
	return prefix + hex.EncodeToString(hash.Sum(nil))
}
