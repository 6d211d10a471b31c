package connector

import (
	"strconv"
	"strings"
)

// InferTable is the default schema inference. It derives one field per
// header, detects a declared type from the sample values, and flags a field
// named "id" (case-insensitive) as the key when present. Callers with
// richer inference supply their own InferFunc through handler config.
func InferTable(name string, path []string, headers []string, samples []Row) (*Table, error) {
	fields := make([]Field, 0, len(headers))
	for _, h := range headers {
		fields = append(fields, Field{
			Name: h,
			Type: inferType(h, samples),
			Key:  strings.EqualFold(h, "id"),
		})
	}

	return &Table{
		Name:   name,
		Path:   append([]string{}, path...),
		Fields: fields,
	}, nil
}

// inferType picks the narrowest type that fits every non-blank sample value
// for the column, falling back to text.
func inferType(column string, samples []Row) FieldType {
	sawValue := false
	isNumber := true
	isBoolean := true
	isJSON := true

	for _, row := range samples {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}

		switch val := v.(type) {
		case bool:
			sawValue = true
			isNumber = false
			isJSON = false
		case float64, int, int64:
			sawValue = true
			isBoolean = false
			isJSON = false
		case map[string]interface{}, []interface{}:
			sawValue = true
			isNumber = false
			isBoolean = false
		case string:
			s := strings.TrimSpace(val)
			if s == "" {
				continue
			}
			sawValue = true
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isNumber = false
			}
			if !strings.EqualFold(s, "true") && !strings.EqualFold(s, "false") {
				isBoolean = false
			}
			if !looksStructured(s) {
				isJSON = false
			}
		default:
			sawValue = true
			isNumber = false
			isBoolean = false
			isJSON = false
		}
	}

	switch {
	case !sawValue:
		return TypeText
	case isBoolean:
		return TypeBoolean
	case isNumber:
		return TypeNumber
	case isJSON:
		return TypeJSON
	default:
		return TypeText
	}
}

func looksStructured(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}
