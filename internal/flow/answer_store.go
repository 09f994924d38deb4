package flow

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/quadrant-labs/StrategyPipe/internal/models"
)

// WriteAtPath returns a copy of record with the answer value stored at the
// dot-separated path, e.g. "section2.actual". The input record is never
// modified. Intermediate path segments must name nested record structs;
// the final segment must name a leaf whose Go type matches the value.
func WriteAtPath(record models.SessionRecord, path string, value any) (models.SessionRecord, error) {
	if path == "" {
		return record, models.ErrEmptyPath
	}
	segments := strings.Split(path, ".")
	out := record.Clone()
	target := reflect.ValueOf(&out).Elem()
	for i, segment := range segments {
		field, ok := fieldByJSONTag(target, segment)
		if !ok {
			return record, fmt.Errorf("%w: %q (segment %q)", models.ErrUnknownPath, path, segment)
		}
		if i == len(segments)-1 {
			if err := assignLeaf(field, value); err != nil {
				return record, fmt.Errorf("path %q: %w", path, err)
			}
			return out, nil
		}
		if field.Kind() != reflect.Struct {
			return record, fmt.Errorf("%w: %q (segment %q is a leaf)", models.ErrPathNotRecord, path, segment)
		}
		target = field
	}
	return out, nil
}

// fieldByJSONTag resolves a struct field by the name part of its json tag.
func fieldByJSONTag(v reflect.Value, name string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		tagName, _, _ := strings.Cut(tag, ",")
		if tagName == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// assignLeaf stores value into the leaf field: strings into string fields,
// string slices into []string fields. Anything else is a type mismatch.
func assignLeaf(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: field wants string, got %T", models.ErrValueTypeMismatch, value)
		}
		field.SetString(s)
		return nil
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("%w: unsupported slice leaf %s", models.ErrValueTypeMismatch, field.Type())
		}
		list, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: field wants []string, got %T", models.ErrValueTypeMismatch, value)
		}
		field.Set(reflect.ValueOf(append([]string(nil), list...)))
		return nil
	case reflect.Struct:
		return fmt.Errorf("%w: path ends on a record, not a leaf", models.ErrPathNotRecord)
	default:
		return fmt.Errorf("%w: unsupported leaf kind %s", models.ErrValueTypeMismatch, field.Kind())
	}
}

// WriteAnswer stores an answer value at the question's path, dispatching on
// the answer shape: text answers go to string leaves, list answers to
// []string leaves.
func WriteAnswer(record models.SessionRecord, q *Question, answer models.AnswerValue) (models.SessionRecord, error) {
	if q == nil {
		return record, models.ErrNoActiveQuestion
	}
	return WriteAtPath(record, q.Path, answer.Value())
}
