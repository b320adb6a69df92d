package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var ErrSchemaInvalid = errors.New("frontmatter schema invalid")

// schemaIssue captures a single schema validation failure with its
// instance location inside the frontmatter document.
type schemaIssue struct {
	Location string
	Message  string
}

// compileSchema turns the caller-supplied schema map into a compiled JSON
// schema. Draft 2020-12 keeps behaviour aligned across callers.
func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile("frontmatter.schema.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return compiled, nil
}

// checkFrontMatter validates the document's raw frontmatter against the
// compiled schema. The raw map is round-tripped through JSON first so YAML
// native types (timestamps in particular) validate as their JSON forms.
func checkFrontMatter(entry *documentEntry, compiled *jsonschema.Schema) []interfaces.Finding {
	if compiled == nil {
		return nil
	}

	payload := entry.doc.FrontMatter.Raw
	if payload == nil {
		payload = map[string]any{}
	}
	normalized, err := normalizePayload(payload)
	if err != nil {
		return []interfaces.Finding{{
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     1,
			Message:  fmt.Sprintf("frontmatter is not schema-checkable: %v", err),
		}}
	}

	err = compiled.Validate(normalized)
	if err == nil {
		return nil
	}

	var findings []interfaces.Finding
	for _, issue := range schemaIssues(err) {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		findings = append(findings, interfaces.Finding{
			Rule:     RuleFrontMatterSchema,
			Severity: interfaces.SeverityError,
			Path:     entry.doc.Path,
			Line:     1,
			Message:  fmt.Sprintf("frontmatter %s: %s", location, issue.Message),
		})
	}
	return findings
}

func normalizePayload(payload map[string]any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func schemaIssues(err error) []schemaIssue {
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return []schemaIssue{{Message: err.Error()}}
	}

	issues := []schemaIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, schemaIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return issues
}
