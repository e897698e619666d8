package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/letiskotransfer/transfer-api/internal/models"
)

// maxSafeInt bounds coerced numbers before they are handed to range checks
const maxSafeInt = 1 << 53

// jsonKind names the JSON type of a raw value the way error messages refer to it
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "undefined"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// decoder pulls typed values out of a decoded JSON object, recording a type
// error per key instead of failing the whole document.
type decoder struct {
	fields map[string]json.RawMessage
	errs   *models.ErrorTree
	failed map[string]bool
}

func newDecoder(fields map[string]json.RawMessage, errs *models.ErrorTree) *decoder {
	return &decoder{fields: fields, errs: errs, failed: make(map[string]bool)}
}

func (d *decoder) fail(path []string, message string) {
	d.failed[path[0]] = true
	d.errs.AddAt(path, message)
}

// present returns the raw value for key unless it is missing or null
func (d *decoder) present(key string) (json.RawMessage, bool) {
	raw, ok := d.fields[key]
	if !ok || jsonKind(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// str decodes a string field, trimmed. Missing and null yield "".
func (d *decoder) str(key string) string {
	raw, ok := d.present(key)
	if !ok {
		return ""
	}
	if kind := jsonKind(raw); kind != "string" {
		d.fail([]string{key}, "Expected string, received "+kind)
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		d.fail([]string{key}, "Expected string, received "+jsonKind(raw))
		return ""
	}
	return strings.TrimSpace(value)
}

// integer decodes a number or numeric string into an int. Missing, null and
// blank strings yield nil.
func (d *decoder) integer(key string) *int {
	raw, ok := d.present(key)
	if !ok {
		return nil
	}

	var number float64
	switch kind := jsonKind(raw); kind {
	case "number":
		if err := json.Unmarshal(raw, &number); err != nil {
			d.fail([]string{key}, "Expected number, received nan")
			return nil
		}
	case "string":
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			d.fail([]string{key}, "Expected number, received nan")
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			d.fail([]string{key}, "Expected number, received nan")
			return nil
		}
		number = parsed
	default:
		d.fail([]string{key}, "Expected number, received "+kind)
		return nil
	}

	if number != math.Trunc(number) {
		d.fail([]string{key}, "Expected integer, received float")
		return nil
	}
	number = math.Max(-maxSafeInt, math.Min(maxSafeInt, number))
	value := int(number)
	return &value
}

// list decodes an array of strings, each trimmed. Missing and null yield nil.
func (d *decoder) list(key string) []string {
	raw, ok := d.present(key)
	if !ok {
		return nil
	}
	if kind := jsonKind(raw); kind != "array" {
		d.fail([]string{key}, "Expected array, received "+kind)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		d.fail([]string{key}, "Expected array, received "+jsonKind(raw))
		return nil
	}

	values := make([]string, 0, len(items))
	for i, item := range items {
		if kind := jsonKind(item); kind != "string" {
			d.fail([]string{key, strconv.Itoa(i)}, "Expected string, received "+kind)
			continue
		}
		var value string
		if err := json.Unmarshal(item, &value); err != nil {
			d.fail([]string{key, strconv.Itoa(i)}, "Expected string, received string")
			continue
		}
		values = append(values, strings.TrimSpace(value))
	}
	return values
}
