package process

import (
	"fmt"
	"time"

	"triage-backend/internal/shared/util"
)

const outputTimestampLayout = "20060102-150405"

// OutputName derives the download filename for a processed spreadsheet:
// sanitized model id, then a second-resolution timestamp, then the original
// name. Two requests in the same second still diverge on model or original
// name, which is enough uniqueness without a database or lock.
func OutputName(modelID, originalName string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", util.SanitizeModelID(modelID), now.Format(outputTimestampLayout), originalName)
}
