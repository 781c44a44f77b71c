package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/yallatask/yalla/internal/gemini"
	"github.com/yallatask/yalla/internal/model"
)

const DefaultStepIcon = "fa-circle-info"

const infographicJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["mainTitle", "summary", "steps"],
  "properties": {
    "mainTitle": {"type": "string"},
    "summary": {"type": "string"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "content", "icon"],
        "properties": {
          "title": {"type": "string"},
          "content": {"type": "string"},
          "icon": {"type": "string"}
        }
      }
    }
  }
}`

var infographicValidator = jsonschema.MustCompileString("infographic.schema.json", infographicJSONSchema)

// InfographicSchema is the response schema sent with the extraction request.
func InfographicSchema() *gemini.Schema {
	return &gemini.Schema{
		Type: "OBJECT",
		Properties: map[string]gemini.Schema{
			"mainTitle": {Type: "STRING"},
			"summary":   {Type: "STRING"},
			"steps": {
				Type: "ARRAY",
				Items: &gemini.Schema{
					Type: "OBJECT",
					Properties: map[string]gemini.Schema{
						"title":   {Type: "STRING"},
						"content": {Type: "STRING"},
						"icon":    {Type: "STRING", Description: "FontAwesome class like 'fa-rocket'"},
					},
					Required: []string{"title", "content", "icon"},
				},
			},
		},
		Required: []string{"mainTitle", "summary", "steps"},
	}
}

// ParseInfographic decodes a model answer. It never fails: unusable input
// yields an empty record, and schema violations are reported as problems
// alongside whatever could be kept. Steps without a title are dropped and a
// missing icon falls back to DefaultStepIcon.
func ParseInfographic(raw string) (model.InfographicData, []string) {
	body := stripCodeFence(raw)
	if body == "" {
		return model.InfographicData{}, nil
	}

	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return model.InfographicData{}, []string{fmt.Sprintf("unparsable json: %v", err)}
	}

	var problems []string
	if err := infographicValidator.Validate(generic); err != nil {
		problems = schemaProblems(err)
	}

	var data model.InfographicData
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return model.InfographicData{}, append(problems, fmt.Sprintf("decode infographic: %v", err))
	}
	data.MainTitle = strings.TrimSpace(data.MainTitle)
	data.Summary = strings.TrimSpace(data.Summary)
	steps := make([]model.InfographicStep, 0, len(data.Steps))
	for _, s := range data.Steps {
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			continue
		}
		s.Content = strings.TrimSpace(s.Content)
		s.Icon = strings.TrimSpace(s.Icon)
		if s.Icon == "" {
			s.Icon = DefaultStepIcon
		}
		steps = append(steps, s)
	}
	data.Steps = steps
	return data, problems
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	collectSchemaProblems(&out, ve)
	return out
}

func collectSchemaProblems(out *[]string, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaProblems(out, cause)
	}
}
