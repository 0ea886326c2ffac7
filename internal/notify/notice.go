package notify

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// MessageType tags application notices on the wire
const MessageType = "application.submitted"

// ErrMalformedNotice is returned when a message does not match the notice schema
var ErrMalformedNotice = errors.New("malformed application notice")

//go:embed application_notice.schema.json
var noticeSchemaJSON []byte

var noticeSchema = compileSchema()

// ApplicationNotice asks the worker to email a job owner about a new application
type ApplicationNotice struct {
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func compileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("application_notice.json", bytes.NewReader(noticeSchemaJSON)); err != nil {
		panic(fmt.Sprintf("add notice schema: %v", err))
	}
	return compiler.MustCompile("application_notice.json")
}

// Encode validates and serializes a notice
func Encode(n ApplicationNotice) ([]byte, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notice: %w", err)
	}
	if err := validate(body); err != nil {
		return nil, err
	}
	return body, nil
}

// Decode validates body against the notice schema and parses it
func Decode(body []byte) (*ApplicationNotice, error) {
	if err := validate(body); err != nil {
		return nil, err
	}
	var n ApplicationNotice
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotice, err)
	}
	return &n, nil
}

func validate(body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedNotice, err)
	}
	if err := noticeSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedNotice, err)
	}
	return nil
}
