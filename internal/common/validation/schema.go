// Package validation checks mutation payloads against per-resource JSON
// schemas before they are sent to the backend.
package validation

import (
	"fmt"
	"sort"
	"sync"

	apperrors "hostel-portal/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

const datePattern = `^\\d{4}-\\d{2}-\\d{2}`

var schemas = map[string]string{
	"announcements": `{
		"type": "object",
		"required": ["title", "content"],
		"properties": {
			"title":          {"type": "string", "minLength": 1, "maxLength": 200},
			"content":        {"type": "string", "minLength": 1},
			"category":       {"enum": ["general", "maintenance", "event", "emergency", "academic"]},
			"priority":       {"enum": ["low", "medium", "high", "urgent"]},
			"targetAudience": {"enum": ["all", "students", "wardens"]},
			"expiresAt":      {"type": "string", "pattern": "` + datePattern + `"}
		}
	}`,
	"complaints": `{
		"type": "object",
		"required": ["title", "description", "category"],
		"properties": {
			"title":       {"type": "string", "minLength": 1, "maxLength": 200},
			"description": {"type": "string", "minLength": 1},
			"category":    {"enum": ["electrical", "plumbing", "cleaning", "internet", "furniture", "other"]},
			"priority":    {"enum": ["low", "medium", "high", "urgent"]}
		}
	}`,
	"leaves": `{
		"type": "object",
		"required": ["leaveType", "fromDate", "toDate", "reason"],
		"properties": {
			"leaveType": {"enum": ["home", "medical", "emergency", "other"]},
			"fromDate":  {"type": "string", "pattern": "` + datePattern + `"},
			"toDate":    {"type": "string", "pattern": "` + datePattern + `"},
			"reason":    {"type": "string", "minLength": 1}
		}
	}`,
	"fees": `{
		"type": "object",
		"required": ["student", "feeType", "amount", "dueDate"],
		"properties": {
			"student": {"type": "string", "minLength": 1},
			"feeType": {"enum": ["hostel", "mess", "maintenance", "security"]},
			"amount":  {"type": "number", "minimum": 0.01},
			"month":   {"type": "string"},
			"year":    {"type": "integer", "minimum": 2000},
			"dueDate": {"type": "string", "pattern": "` + datePattern + `"}
		}
	}`,
	"rooms": `{
		"type": "object",
		"required": ["roomNumber", "block", "type", "capacity"],
		"properties": {
			"roomNumber": {"type": "string", "minLength": 1},
			"block":      {"type": "string", "minLength": 1},
			"floor":      {"type": "integer", "minimum": 0},
			"type":       {"enum": ["single", "double", "triple"]},
			"capacity":   {"type": "integer", "minimum": 1, "maximum": 6},
			"rent":       {"type": "number", "minimum": 0}
		}
	}`,
	"users": `{
		"type": "object",
		"required": ["name", "email", "role"],
		"properties": {
			"name":      {"type": "string", "minLength": 1},
			"email":     {"type": "string", "format": "email"},
			"role":      {"enum": ["admin", "warden", "student"]},
			"phone":     {"type": "string", "pattern": "^[0-9+ -]{7,15}$"},
			"studentId": {"type": "string"},
			"block":     {"type": "string"}
		}
	}`,
	"wardens": `{
		"type": "object",
		"required": ["name", "email"],
		"properties": {
			"name":  {"type": "string", "minLength": 1},
			"email": {"type": "string", "format": "email"},
			"phone": {"type": "string", "pattern": "^[0-9+ -]{7,15}$"},
			"block": {"type": "string"}
		}
	}`,
}

var (
	compileOnce sync.Once
	compiled    map[string]*gojsonschema.Schema
	compileErr  error
)

func load() (map[string]*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled = make(map[string]*gojsonschema.Schema, len(schemas))
		for name, raw := range schemas {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
			if err != nil {
				compileErr = fmt.Errorf("compile %s schema: %w", name, err)
				return
			}
			compiled[name] = s
		}
	})
	return compiled, compileErr
}

// HasSchema reports whether payloads for resource are validated.
func HasSchema(resource string) bool {
	_, ok := schemas[resource]
	return ok
}

// ValidateCreate checks a create payload for resource. Resources without a
// schema pass unchecked. Violations come back as a VALIDATION_FAILED error.
func ValidateCreate(resource string, payload interface{}) error {
	all, err := load()
	if err != nil {
		return err
	}
	schema, ok := all[resource]
	if !ok {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		if desc.Field() == "(root)" {
			problems = append(problems, desc.Description())
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	sort.Strings(problems)
	return apperrors.NewValidationError(problems)
}
