package estimate

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
)

// EncodeDocument renders the document as the pretty-printed blob stored on ApiModel
func EncodeDocument(doc AnalysisDocument) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis document: %w", err)
	}
	return string(data), nil
}

// DecodeDocument parses a stored blob. Storage round-trips may have turned
// numbers into strings, so every string sitting where the document expects a
// number (or flag) is coerced back first; malformed numbers become zero.
func DecodeDocument(blob string) (AnalysisDocument, error) {
	var doc AnalysisDocument
	if strings.TrimSpace(blob) == "" {
		return doc, nil
	}
	coerced, err := CoerceNumericStrings([]byte(blob), reflect.TypeOf(doc))
	if err != nil {
		return doc, fmt.Errorf("failed to decode analysis document: %w", err)
	}
	if err := json.Unmarshal(coerced, &doc); err != nil {
		return doc, fmt.Errorf("failed to decode analysis document: %w", err)
	}
	return doc, nil
}

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// CoerceNumericStrings rewrites raw JSON so that string values whose target Go
// field is numeric or boolean carry the proper JSON type
func CoerceNumericStrings(raw []byte, target reflect.Type) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(coerce(generic, target))
}

func coerce(value interface{}, t reflect.Type) interface{} {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if value == nil {
		return nil
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshalerType) || reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return value
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return value
		}
		for key, v := range obj {
			if field, found := fieldForKey(t, key); found {
				obj[key] = coerce(v, field.Type)
			}
		}
		return obj
	case reflect.Slice, reflect.Array:
		list, ok := value.([]interface{})
		if !ok {
			return value
		}
		for i, v := range list {
			list[i] = coerce(v, t.Elem())
		}
		return list
	case reflect.Map:
		obj, ok := value.(map[string]interface{})
		if !ok {
			return value
		}
		for key, v := range obj {
			obj[key] = coerce(v, t.Elem())
		}
		return obj
	case reflect.Float32, reflect.Float64:
		if s, ok := value.(string); ok {
			return json.Number(strconv.FormatFloat(shared.ParseOrZero(s), 'f', -1, 64))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch v := value.(type) {
		case string:
			return json.Number(strconv.FormatInt(int64(shared.ParseOrZero(v)), 10))
		case json.Number:
			if _, err := v.Int64(); err != nil {
				f, _ := v.Float64()
				return json.Number(strconv.FormatInt(int64(f), 10))
			}
		}
	case reflect.Bool:
		if s, ok := value.(string); ok {
			return shared.ParseBoolOrFalse(s)
		}
	}
	return value
}

// fieldForKey finds the struct field a JSON key decodes into, matching names
// case-insensitively like encoding/json does
func fieldForKey(t reflect.Type, key string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			if tagName := strings.Split(tag, ",")[0]; tagName == "-" {
				continue
			} else if tagName != "" {
				name = tagName
			}
		}
		if strings.EqualFold(name, key) {
			return field, true
		}
	}
	return reflect.StructField{}, false
}
