package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv overrides config values from environment variables.
// Fields opt in with an `env:"NAME"` struct tag; nested structs are walked
// recursively. Unset or empty variables leave the field untouched.
func LoadFromEnv(cfg interface{}) error {
	return loadFromEnv(reflect.ValueOf(cfg))
}

// MergeFromEnv merges environment variables into an already loaded config.
// This is a convenience wrapper around LoadFromEnv.
func MergeFromEnv(cfg interface{}) error {
	return LoadFromEnv(cfg)
}

// loadFromEnv applies env overrides to the struct behind v.
func loadFromEnv(v reflect.Value) error {
	// Follow the pointer to the config struct.
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	// Scalars have no fields to walk.
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		// Unexported fields cannot be set through reflection.
		if !field.CanSet() {
			continue
		}

		// Sections such as Logging and Collector carry their own tags.
		if field.Kind() == reflect.Struct {
			if err := loadFromEnv(field); err != nil {
				return err
			}
			continue
		}

		// Fields without a tag are file-only.
		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		// An empty variable counts as unset.
		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue, fieldType.Name, envTag); err != nil {
			return err
		}
	}

	return nil
}

// setFieldValue parses value into field according to the field's kind.
// Pointer fields are allocated so that "set to the zero value" is distinguishable
// from "unset".
func setFieldValue(field reflect.Value, value string, fieldName string, envVar string) error {
	// Optional settings such as Logging.Pretty are pointers.
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := setFieldValue(elem.Elem(), value, fieldName, envVar); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		// Accepts the strconv forms: 1/0, t/f, true/false.
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetBool(boolVal)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Durations are int64 underneath but are written as "250ms", "2s".
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration for %s (%s): %w", fieldName, envVar, err)
			}
			field.SetInt(int64(duration))
			break
		}

		intVal, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer for %s (%s): %w", fieldName, envVar, err)
		}
		field.SetInt(intVal)

	case reflect.Slice:
		// Only string lists are supported, given as comma-separated values.
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type for %s (%s)", fieldName, envVar)
		}
		values := strings.Split(value, ",")
		// Tolerate "a, b" as well as "a,b".
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
		}
		field.Set(reflect.ValueOf(values))

	default:
		return fmt.Errorf("unsupported type %s for %s (%s)", field.Kind(), fieldName, envVar)
	}

	return nil
}
