// Package schema provides the registry of named agent output schemas.
// Each schema pairs a JSON Schema document, used to validate the model's
// structured output, with an extraction function that pulls the unified
// issue list out of the schema-specific shape.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/richhaase/council/internal/domain"
)

// Schema is one registered output shape.
type Schema struct {
	name     string
	document string
	extract  func(data []byte) ([]domain.ReviewIssue, error)
	compiled *gojsonschema.Schema
}

// Name returns the registry name of the schema.
func (s *Schema) Name() string { return s.name }

// Decode validates raw model output against the schema document and
// extracts the issue list. Issues missing an agent name are attributed to
// agentName; every extracted issue is validated.
func (s *Schema) Decode(agentName string, data []byte) ([]domain.ReviewIssue, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("schema %s: empty output", s.name)
	}

	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("schema %s: output is not valid JSON: %w", s.name, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, fmt.Errorf("schema %s: output violates schema: %s (%d violation(s))",
			s.name, first, len(result.Errors()))
	}

	issues, err := s.extract(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.name, err)
	}

	for i := range issues {
		if issues[i].AgentName == "" {
			issues[i].AgentName = agentName
		}
		if err := issues[i].Validate(); err != nil {
			return nil, fmt.Errorf("schema %s: %w", s.name, err)
		}
	}
	return issues, nil
}

// issueProperties is the JSON Schema fragment for one review issue.
// Severity casing is normalized at decode time, so the document only
// requires a string here.
const issueProperties = `{
	"type": "object",
	"required": ["severity", "description"],
	"properties": {
		"agent_name": {"type": "string"},
		"severity": {"type": "string"},
		"description": {"type": "string", "minLength": 1},
		"location": {
			"type": "object",
			"required": ["file_path", "line_number"],
			"properties": {
				"file_path": {"type": "string", "minLength": 1},
				"line_number": {"type": "integer", "minimum": 1}
			}
		},
		"suggestion": {"type": "string"},
		"category": {"type": "string"}
	}
}`

// extractIssuesField decodes the common {"issues": [...]} shape.
func extractIssuesField(data []byte) ([]domain.ReviewIssue, error) {
	var out struct {
		Issues []domain.ReviewIssue `json:"issues"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out.Issues, nil
}

func newSchema(name, document string, extract func([]byte) ([]domain.ReviewIssue, error)) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		// Built-in documents are fixed at compile time; a bad one is a bug.
		panic(fmt.Sprintf("invalid built-in schema %s: %v", name, err))
	}
	return &Schema{name: name, document: document, extract: extract, compiled: compiled}
}
