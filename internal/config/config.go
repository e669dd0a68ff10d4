// Package config loads movcat configuration with CLI > environment >
// TOML file precedence. Option structs declare their mapping via `toml`
// and `env` struct tags; flags the user set explicitly on the command
// line are never overwritten.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every env tag.
const EnvPrefix = "MOVCAT_"

// Load applies TOML file values and environment overrides to opts.
// opts must be a pointer to a struct; its Config field, when present,
// names the TOML file. If cmd is non-nil, flags changed on the command
// line keep their CLI values.
func Load(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	changed := changedFlags(cmd)

	configPath := ""
	if f := v.FieldByName("Config"); f.IsValid() && f.Kind() == reflect.String {
		configPath = f.String()
	}

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			var file map[string]any
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("failed to parse TOML config %s: %w", configPath, err)
			}
			for i := 0; i < v.NumField(); i++ {
				field, fieldType := v.Field(i), t.Field(i)
				if changed[flagName(fieldType.Name)] {
					continue
				}
				if path := fieldType.Tag.Get("toml"); path != "" {
					if value := nestedValue(file, path); value != nil {
						setValue(field, value)
					}
				}
			}
		}
	}

	for i := 0; i < v.NumField(); i++ {
		field, fieldType := v.Field(i), t.Field(i)
		if changed[flagName(fieldType.Name)] {
			continue
		}
		if key := fieldType.Tag.Get("env"); key != "" {
			if envValue := os.Getenv(EnvPrefix + key); envValue != "" {
				setValueFromString(field, envValue)
			}
		}
	}

	return nil
}

func changedFlags(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	if cmd == nil {
		return changed
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed[f.Name] = true
		}
	})
	return changed
}

// flagName converts a struct field name to its CLI flag name.
// "LoggingLevel" becomes "logging-level".
func flagName(fieldName string) string {
	var out []rune
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			out = append(out, '-')
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// nestedValue walks a dotted path through nested TOML tables.
func nestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

func setValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case int:
			field.SetInt(int64(n))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		arr, ok := value.([]any)
		if !ok {
			return
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		field.Set(reflect.ValueOf(out))
	}
}

func setValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(value, ",")
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		field.Set(reflect.ValueOf(out))
	}
}
