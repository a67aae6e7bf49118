package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TEXTGEOM_"

// EnvLoader reads settings from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TEXTGEOM_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
	}
}

// defaultEnvMapping returns the shorthand variables.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"TEXTGEOM_LOG_LEVEL": "logging.level",
		"TEXTGEOM_THEME":     "highlight.theme",
		"TEXTGEOM_LANGUAGE":  "highlight.language",
		"TEXTGEOM_FONT":      "text.family",
		"TEXTGEOM_FONT_SIZE": "text.fontSize",
		"TEXTGEOM_WIDTH":     "render.width",
	}
}

// Load reads environment variables and returns them as a nested settings map.
// Empty values are kept, not treated as unset.
func (l *EnvLoader) Load() map[string]any {
	settings := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(settings, path, typedValue(path, val))
		}
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, l.prefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		path := l.envToPath(name)
		setByPath(settings, path, typedValue(path, value))
	}

	return settings
}

// Apply lays the environment over cfg. Unknown variables under the prefix
// are reported as a *ParseError.
func (l *EnvLoader) Apply(cfg *Config) error {
	settings := l.Load()
	if len(settings) == 0 {
		return nil
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding environment settings: %w", err)
	}
	return cfg.decode("<env>", data)
}

// envToPath converts TEXTGEOM_TEXT_FONT_SIZE to text.fontSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	section, rest, ok := strings.Cut(name, "_")
	if !ok {
		return strings.ToLower(name)
	}

	parts := strings.Split(rest, "_")
	setting := strings.ToLower(parts[0])
	for _, part := range parts[1:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return strings.ToLower(section) + "." + setting
}

// typedValue types val for the setting at path. String settings take val as
// is; other settings, and names that match no setting, go through parseValue.
func typedValue(path, val string) any {
	if kind, ok := settingKind(path); ok && kind == reflect.String {
		return val
	}
	return parseValue(val)
}

// settingKind returns the kind of the Config field named by a dotted toml path.
func settingKind(path string) (reflect.Kind, bool) {
	t := reflect.TypeFor[Config]()
	for _, part := range strings.Split(path, ".") {
		if t.Kind() != reflect.Struct {
			return reflect.Invalid, false
		}
		field, ok := tomlField(t, part)
		if !ok {
			return reflect.Invalid, false
		}
		t = field.Type
	}
	return t.Kind(), true
}

func tomlField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		if tag, _, _ := strings.Cut(f.Tag.Get("toml"), ","); tag == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// parseValue types a value for TOML decoding. Values that look like numbers or
// booleans become numbers or booleans; everything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
