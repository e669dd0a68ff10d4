package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// testOptions mirrors the shape of the main Options struct.
type testOptions struct {
	Config string `help:"Config file path"`

	StringField string   `toml:"test.string_field" env:"STRING_FIELD"`
	BoolField   bool     `toml:"test.bool_field" env:"BOOL_FIELD"`
	IntField    int      `toml:"test.int_field" env:"INT_FIELD"`
	SliceField  []string `toml:"test.slice_field" env:"SLICE_FIELD"`

	NestedString string `toml:"nested.value" env:"NESTED_VALUE"`
}

func writeTempTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movcat.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoadFromTOML(t *testing.T) {
	path := writeTempTOML(t, `
[test]
string_field = "hello world"
bool_field = true
int_field = 42
slice_field = ["item1", "item2", "item3"]

[nested]
value = "nested value"
`)

	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if opts.StringField != "hello world" {
		t.Errorf("StringField = %q, want %q", opts.StringField, "hello world")
	}
	if !opts.BoolField {
		t.Errorf("BoolField = %v, want true", opts.BoolField)
	}
	if opts.IntField != 42 {
		t.Errorf("IntField = %d, want 42", opts.IntField)
	}
	wantSlice := []string{"item1", "item2", "item3"}
	if !reflect.DeepEqual(opts.SliceField, wantSlice) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, wantSlice)
	}
	if opts.NestedString != "nested value" {
		t.Errorf("NestedString = %q, want %q", opts.NestedString, "nested value")
	}
}

func TestLoadFromEnvVars(t *testing.T) {
	t.Setenv("MOVCAT_STRING_FIELD", "env string")
	t.Setenv("MOVCAT_BOOL_FIELD", "false")
	t.Setenv("MOVCAT_INT_FIELD", "123")
	t.Setenv("MOVCAT_SLICE_FIELD", "a,b,c")
	t.Setenv("MOVCAT_NESTED_VALUE", "env nested")

	opts := &testOptions{}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if opts.StringField != "env string" {
		t.Errorf("StringField = %q, want %q", opts.StringField, "env string")
	}
	if opts.BoolField {
		t.Errorf("BoolField = %v, want false", opts.BoolField)
	}
	if opts.IntField != 123 {
		t.Errorf("IntField = %d, want 123", opts.IntField)
	}
	wantSlice := []string{"a", "b", "c"}
	if !reflect.DeepEqual(opts.SliceField, wantSlice) {
		t.Errorf("SliceField = %v, want %v", opts.SliceField, wantSlice)
	}
	if opts.NestedString != "env nested" {
		t.Errorf("NestedString = %q, want %q", opts.NestedString, "env nested")
	}
}

func TestLoadEnvOverridesTOML(t *testing.T) {
	path := writeTempTOML(t, `
[test]
string_field = "toml value"
bool_field = true
int_field = 100
slice_field = ["toml1", "toml2"]
`)

	t.Setenv("MOVCAT_STRING_FIELD", "env override")
	t.Setenv("MOVCAT_BOOL_FIELD", "false")

	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if opts.StringField != "env override" {
		t.Errorf("StringField = %q, want env override", opts.StringField)
	}
	if opts.BoolField {
		t.Errorf("BoolField = %v, want false (env override)", opts.BoolField)
	}
	if opts.IntField != 100 {
		t.Errorf("IntField = %d, want 100 (from TOML)", opts.IntField)
	}
	wantSlice := []string{"toml1", "toml2"}
	if !reflect.DeepEqual(opts.SliceField, wantSlice) {
		t.Errorf("SliceField = %v, want %v (from TOML)", opts.SliceField, wantSlice)
	}
}

func TestNestedValue(t *testing.T) {
	data := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"value": "nested_value",
			},
			"simple": "simple_value",
		},
		"root": "root_value",
	}

	tests := []struct {
		path string
		want any
	}{
		{"root", "root_value"},
		{"level1.simple", "simple_value"},
		{"level1.level2.value", "nested_value"},
		{"nonexistent", nil},
		{"level1.nonexistent", nil},
	}

	for _, tt := range tests {
		if got := nestedValue(data, tt.path); got != tt.want {
			t.Errorf("nestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFlagName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"Config", "config"},
		{"FfmpegPath", "ffmpeg-path"},
		{"LoggingLevel", "logging-level"},
		{"Port", "port"},
	}

	for _, tt := range tests {
		if got := flagName(tt.field); got != tt.want {
			t.Errorf("flagName(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestSetValueFromString(t *testing.T) {
	type target struct {
		S  string
		B  bool
		N  int
		SS []string
	}

	v := &target{}
	rv := reflect.ValueOf(v).Elem()

	setValueFromString(rv.FieldByName("S"), "text")
	if v.S != "text" {
		t.Errorf("S = %q, want text", v.S)
	}

	setValueFromString(rv.FieldByName("B"), "true")
	if !v.B {
		t.Errorf("B = %v, want true", v.B)
	}

	setValueFromString(rv.FieldByName("N"), "17")
	if v.N != 17 {
		t.Errorf("N = %d, want 17", v.N)
	}

	setValueFromString(rv.FieldByName("SS"), " a , b , c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(v.SS, want) {
		t.Errorf("SS = %v, want %v", v.SS, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	opts := &testOptions{Config: "nonexistent_file.toml"}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeTempTOML(t, `
[test
invalid toml syntax
`)

	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err == nil {
		t.Fatalf("Load should fail for invalid TOML")
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeTempTOML(t, `
[logging]
level = "warn"
format = "json"
mov = "debug"
ffmpeg = "error"
`)

	cfg := LoadLoggingConfig(path)
	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.Modules["mov"] != "debug" {
		t.Errorf("Modules[mov] = %q, want debug", cfg.Modules["mov"])
	}
	if cfg.Modules["ffmpeg"] != "error" {
		t.Errorf("Modules[ffmpeg] = %q, want error", cfg.Modules["ffmpeg"])
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	cfg := LoadLoggingConfig("/no/such/file.toml")
	if cfg.Level != "info" || cfg.Format != "text" {
		t.Errorf("defaults = %q/%q, want info/text", cfg.Level, cfg.Format)
	}
}
