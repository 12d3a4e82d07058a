// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Engine Backend - these keys select and configure the media engine the surface is bound to.
const (
	EngineBackend    = "engine.backend"
	EngineMpvBinary  = "engine.mpv_binary"
	EngineMpvArgs    = "engine.mpv_args"
	EngineSocketWait = "engine.socket_wait"
)

// Playback - these keys seed the surface state when a source is opened.
const (
	PlayerVolume           = "player.volume"
	PlayerAutoplay         = "player.autoplay"
	PlayerSeekStep         = "player.seek_step"
	PlayerAudioLanguage    = "player.audio_language"
	PlayerSubtitleLanguage = "player.subtitle_language"
)

// Probe - headless inspection of a source.
const (
	ProbeTimeout       = "probe.timeout"
	ProbeCache         = "probe.cache"
	ProbeCacheLifetime = "probe.cache_lifetime"
)

// Simulated Engine - media characteristics reported by the in-process engine.
const (
	SimLength   = "sim.length"
	SimFPS      = "sim.fps"
	SimWidth    = "sim.width"
	SimHeight   = "sim.height"
	SimChapters = "sim.chapters"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
