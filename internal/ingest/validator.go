package ingest

import (
	"encoding/json"
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "eventgate/pkg/domain-errors"
)

// maxFieldLength bounds userId and eventType so a single record cannot carry
// unbounded key material into stores and summaries.
const maxFieldLength = "256"

// Validate parses and validates a raw payload independent of who sent it.
// Pure function: no side effects, no clock, no store access.
//
// Rejections:
//   - malformed JSON -> bad_request
//   - userId / eventType absent, null, or empty after trimming -> invalid_input
//
// Unknown fields outside the known shape are accepted and dropped.
func Validate(raw []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body")
	}

	if err := requireField("userId", event.UserID); err != nil {
		return nil, err
	}
	if err := requireField("eventType", event.EventType); err != nil {
		return nil, err
	}

	return &event, nil
}

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "missing required field: "+name)
	}
	if !govalidator.StringLength(value, "1", maxFieldLength) {
		return dErrors.New(dErrors.CodeInvalidInput, name+" exceeds maximum length")
	}
	return nil
}
