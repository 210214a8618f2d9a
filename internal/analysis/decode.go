package analysis

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"

	"resume-matcher/internal/llm"
)

const (
	objectSchema = `{"type":"object"}`

	// Title is the only field whose absence rejects a payload.
	jobFactsSchema = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "pattern": "\\S"}
	}
}`
)

var (
	resumeSchema = mustSchema(objectSchema)
	jobSchema    = mustSchema(jobFactsSchema)
	matchSchema  = mustSchema(objectSchema)
	skillsSchema = mustSchema(objectSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("analysis: invalid schema: %v", err))
	}
	return schema
}

func decodeResumeFacts(value any) (ResumeFacts, error) {
	return decodeValue[ResumeFacts](value, resumeSchema)
}

func decodeJobFacts(value any) (JobFacts, error) {
	return decodeValue[JobFacts](value, jobSchema)
}

func decodeMatchResult(value any) (MatchResult, error) {
	return decodeValue[MatchResult](value, matchSchema)
}

func decodeSkillSet(value any) (SkillSet, error) {
	return decodeValue[SkillSet](value, skillsSchema)
}

// decodeValue checks value against schema and maps it onto T. A schema violation is the
// only way to fail; a leaf whose content cannot be mapped onto its Go type is dropped and
// left for the schema default, keeping its siblings.
func decodeValue[T any](value any, schema *gojsonschema.Schema) (T, error) {
	var out T
	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return out, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	if !result.Valid() {
		return out, fmt.Errorf("%w: %s", llm.ErrMalformedResponse, describe(result.Errors()))
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return out, fmt.Errorf("%w: expected object, got %T", llm.ErrMalformedResponse, value)
	}

	if err := mapInto(obj, &out); err == nil {
		return out, nil
	}

	out = *new(T)
	kept := salvageObject[T](obj, func(v any) any { return v })
	if err := mapInto(kept, &out); err != nil {
		return *new(T), fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	return out, nil
}

// salvageObject returns the entries of obj that map onto T once placed at the position
// described by wrap. Nested objects and lists that fail as a whole are filtered entry by entry.
func salvageObject[T any](obj map[string]any, wrap func(any) any) map[string]any {
	kept := make(map[string]any, len(obj))
	for k, v := range obj {
		at := func(x any) any { return wrap(map[string]any{k: x}) }
		if fits[T](at(v)) {
			kept[k] = v
			continue
		}
		var partial any
		switch nested := v.(type) {
		case map[string]any:
			partial = salvageObject[T](nested, at)
		case []any:
			partial = salvageList[T](nested, at)
		default:
			continue
		}
		if fits[T](at(partial)) {
			kept[k] = partial
		}
	}
	return kept
}

func salvageList[T any](items []any, wrap func(any) any) []any {
	kept := make([]any, 0, len(items))
	for _, item := range items {
		at := func(x any) any { return wrap([]any{x}) }
		if fits[T](at(item)) {
			kept = append(kept, item)
			continue
		}
		if nested, ok := item.(map[string]any); ok {
			if partial := salvageObject[T](nested, at); fits[T](at(partial)) {
				kept = append(kept, partial)
			}
		}
	}
	return kept
}

func fits[T any](input any) bool {
	var scratch T
	return mapInto(input, &scratch) == nil
}

func mapInto(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       numericString,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// numericString accepts numbers written with a trailing percent sign, e.g. "85%".
func numericString(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	raw, ok := data.(string)
	if !ok {
		return data, nil
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if trimmed == "" {
		return data, nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, nil
	}
	return data, nil
}

func describe(errs []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
