package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// LookupFunc resolves an environment variable; ok is false when unset.
type LookupFunc func(key string) (value string, ok bool)

// MergeFromEnv overlays environment variables onto cfg.
// Fields opt in with an `env` struct tag; nested structs are walked recursively.
func MergeFromEnv(cfg any) error {
	return MergeFromLookup(cfg, os.LookupEnv)
}

// MergeFromLookup is MergeFromEnv with an explicit variable source.
func MergeFromLookup(cfg any, lookup LookupFunc) error {
	return mergeStruct(reflect.ValueOf(cfg), lookup)
}

func mergeStruct(v reflect.Value, lookup LookupFunc) error {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := mergeStruct(field, lookup); err != nil {
				return err
			}
			continue
		}

		key := t.Field(i).Tag.Get("env")
		if key == "" {
			continue
		}

		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}

		if err := setField(field, value, key); err != nil {
			return err
		}
	}

	return nil
}

func setField(field reflect.Value, value, key string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type for %s", key)
		}
		// Comma separated, blanks dropped.
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported type %s for %s", field.Kind(), key)
	}

	return nil
}
