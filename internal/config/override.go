package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Set overrides a single config value addressed by its dotted YAML key,
// e.g. "finned.fin_count". The value is coerced to the Go type of the
// field; integer fields reject values with a fractional part.
func (c *Config) Set(key, value string) error {
	field, err := lookupField(reflect.ValueOf(c).Elem(), key)
	if err != nil {
		return err
	}
	switch field.Kind() {
	case reflect.Int:
		v, err := cast.ToIntE(value)
		if err != nil {
			return fmt.Errorf("config key %q wants an integer: %w", key, err)
		}
		field.SetInt(int64(v))
	case reflect.Float64:
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Errorf("config key %q wants a number: %w", key, err)
		}
		field.SetFloat(v)
	case reflect.Bool:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("config key %q wants a boolean: %w", key, err)
		}
		field.SetBool(v)
	case reflect.String:
		field.SetString(value)
	default:
		return fmt.Errorf("config key %q is not a single value", key)
	}
	return nil
}

// lookupField follows the yaml tags of the dotted key down from v.
func lookupField(v reflect.Value, key string) (reflect.Value, error) {
	for _, name := range strings.Split(key, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
		}
		found := false
		for i := 0; i < v.NumField(); i++ {
			tag, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("yaml"), ",")
			if tag == name {
				v = v.Field(i)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
		}
	}
	return v, nil
}

// SetAll applies "key=value" overrides in order.
func (c *Config) SetAll(assignments []string) error {
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("override %q is not of the form key=value", a)
		}
		if err := c.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}
