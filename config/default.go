package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/mediasurface/mediasurface/constant"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.EngineBackend, "mpv", "Media engine backend.\nAvailable options are: mpv, sim")
	register(key.EngineMpvBinary, "mpv", "Path to the mpv executable")
	register(key.EngineMpvArgs, []string{}, "Extra arguments passed to every mpv instance")
	register(key.EngineSocketWait, 5, "Seconds to wait for the mpv IPC socket to appear")
	register(key.PlayerVolume, 100, "Initial volume in percent. From 0 to 200")
	register(key.PlayerAutoplay, true, "Start playback as soon as the source is set")
	register(key.PlayerSeekStep, 10, "Seconds to seek per key press")
	register(key.PlayerAudioLanguage, "", "Preferred audio track, fuzzy matched against language and name.\nEmpty keeps the engine's choice")
	register(key.PlayerSubtitleLanguage, "", "Preferred subtitle track, fuzzy matched against language and name.\nEmpty keeps the engine's choice")
	register(key.ProbeTimeout, 15, "Seconds to wait for a source to open when probing")
	register(key.ProbeCache, false, "Reuse probe reports of unchanged sources")
	register(key.ProbeCacheLifetime, 60, "Minutes cached probe reports stay valid")
	register(key.SimLength, 120, "Length of simulated media in seconds")
	register(key.SimFPS, 25, "Frame rate of simulated media")
	register(key.SimWidth, 320, "Width of simulated video")
	register(key.SimHeight, 180, "Height of simulated video")
	register(key.SimChapters, 4, "Number of chapters in simulated media")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(style.Purple),
	"blue":     style.Fg(style.Blue),
	"cyan":     style.Fg(style.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(style.Green)(b)
			}
			return style.Fg(style.Red)(b)
		case string:
			return style.Fg(style.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
