package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig  `mapstructure:"paths"`
	Server   ServerConfig `mapstructure:"server"`
	TTS      TTSConfig    `mapstructure:"tts"`
	Mixer    MixerConfig  `mapstructure:"mixer"`
	LogLevel string       `mapstructure:"log_level"`
}

// MixerConfig controls the audio mixer's post-processing of a rendered
// RenderPlan, mirroring mixer.Options one-for-one.
type MixerConfig struct {
	Normalize        bool    `mapstructure:"normalize"`
	CompressionLevel float64 `mapstructure:"compression_level"`
	CrossfadeMs      int     `mapstructure:"crossfade_ms"`
	Spatial          bool    `mapstructure:"spatial"`
}

type PathsConfig struct {
	VoicePath string `mapstructure:"voice_path"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	GRPCAddr        string `mapstructure:"grpc_addr"`
	Workers         int    `mapstructure:"workers"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_secs"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout_secs"`
}

// TTSConfig selects and configures the reference provider backends.
// HTTPRelay* fields configure the emotion-capable backend
// (provider.HTTPRelayProvider); CLI* fields configure the non-emotion
// subprocess backend (provider.CLIProvider); Model* and ORT* fields
// configure the in-process neural backend (provider.LocalNeuralProvider).
type TTSConfig struct {
	Backend           string `mapstructure:"backend"`
	Voice             string `mapstructure:"voice"`
	HTTPRelayURL      string `mapstructure:"http_relay_url"`
	HTTPRelayAPIKey   string `mapstructure:"http_relay_api_key"`
	CLIPath           string `mapstructure:"cli_path"`
	CLIConfigPath     string `mapstructure:"cli_config_path"`
	ModelManifestPath string `mapstructure:"model_manifest_path"`
	ORTLibraryPath    string `mapstructure:"ort_library_path"`
	Concurrency       int    `mapstructure:"concurrency"`
	Quiet             bool   `mapstructure:"quiet"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			VoicePath: "voices/manifest.json",
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			GRPCAddr:        ":9090",
			Workers:         2,
			ShutdownTimeout: 30,
			MaxTextBytes:    4096,
			RequestTimeout:  60,
		},
		TTS: TTSConfig{
			Backend:           BackendHTTPRelay,
			Voice:             "",
			HTTPRelayURL:      "",
			HTTPRelayAPIKey:   "",
			CLIPath:           "",
			CLIConfigPath:     "",
			ModelManifestPath: "",
			ORTLibraryPath:    "",
			Concurrency:       1,
			Quiet:             true,
		},
		Mixer: MixerConfig{
			Normalize:        true,
			CompressionLevel: 0,
			CrossfadeMs:      0,
			Spatial:          false,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-voice-path", defaults.Paths.VoicePath, "Path to voice manifest JSON")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.String("server-grpc-addr", defaults.Server.GRPCAddr, "gRPC listen address")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent synthesis calls for serve command")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain timeout in seconds")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Maximum POST /tts text size in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request synthesis timeout in seconds")
	fs.String("backend", defaults.TTS.Backend, "Synthesis backend (http-relay|cli|local)")
	fs.String("tts-voice", defaults.TTS.Voice, "Voice ID or name passed through to the selected backend")
	fs.String("tts-http-relay-url", defaults.TTS.HTTPRelayURL, "Base URL of the emotion-capable HTTP relay backend")
	fs.String("tts-http-relay-api-key", defaults.TTS.HTTPRelayAPIKey, "Bearer API key for the HTTP relay backend")
	fs.String("tts-cli-path", defaults.TTS.CLIPath, "Path to the non-emotion CLI synthesis executable")
	fs.String("tts-cli-config-path", defaults.TTS.CLIConfigPath, "Path to the CLI backend's config file")
	fs.String("tts-model-manifest-path", defaults.TTS.ModelManifestPath, "Path to the local neural backend's bundle manifest JSON")
	fs.String("tts-ort-library-path", defaults.TTS.ORTLibraryPath, "Path to the ONNX Runtime shared library for the local backend")
	fs.Int("tts-concurrency", defaults.TTS.Concurrency, "Max concurrent CLI backend subprocesses")
	fs.Bool("tts-quiet", defaults.TTS.Quiet, "Pass --quiet to the CLI backend")
	fs.Bool("mixer-normalize", defaults.Mixer.Normalize, "Peak-normalize the mixed master track")
	fs.Float64("mixer-compression-level", defaults.Mixer.CompressionLevel, "Dynamic range compression level, 0 (off) to 1 (max)")
	fs.Int("mixer-crossfade-ms", defaults.Mixer.CrossfadeMs, "Crossfade duration in milliseconds at speaker-change boundaries")
	fs.Bool("mixer-spatial", defaults.Mixer.Spatial, "Enable stereo spatial placement of character tracks")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("SCRIPTVOICE")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("tts.http_relay_api_key", "SCRIPTVOICE_HTTP_RELAY_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind http relay env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("scriptvoice")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.voice_path", c.Paths.VoicePath)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.grpc_addr", c.Server.GRPCAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout_secs", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout_secs", c.Server.RequestTimeout)
	v.SetDefault("tts.backend", c.TTS.Backend)
	v.SetDefault("tts.voice", c.TTS.Voice)
	v.SetDefault("tts.http_relay_url", c.TTS.HTTPRelayURL)
	v.SetDefault("tts.http_relay_api_key", c.TTS.HTTPRelayAPIKey)
	v.SetDefault("tts.cli_path", c.TTS.CLIPath)
	v.SetDefault("tts.cli_config_path", c.TTS.CLIConfigPath)
	v.SetDefault("tts.model_manifest_path", c.TTS.ModelManifestPath)
	v.SetDefault("tts.ort_library_path", c.TTS.ORTLibraryPath)
	v.SetDefault("tts.concurrency", c.TTS.Concurrency)
	v.SetDefault("tts.quiet", c.TTS.Quiet)
	v.SetDefault("mixer.normalize", c.Mixer.Normalize)
	v.SetDefault("mixer.compression_level", c.Mixer.CompressionLevel)
	v.SetDefault("mixer.crossfade_ms", c.Mixer.CrossfadeMs)
	v.SetDefault("mixer.spatial", c.Mixer.Spatial)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("paths.voice_path", "paths-voice-path")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.grpc_addr", "server-grpc-addr")
	v.RegisterAlias("server.workers", "workers")
	v.RegisterAlias("server.shutdown_timeout_secs", "shutdown-timeout")
	v.RegisterAlias("server.max_text_bytes", "max-text-bytes")
	v.RegisterAlias("server.request_timeout_secs", "request-timeout")
	v.RegisterAlias("tts.backend", "backend")
	v.RegisterAlias("tts.voice", "tts-voice")
	v.RegisterAlias("tts.http_relay_url", "tts-http-relay-url")
	v.RegisterAlias("tts.http_relay_api_key", "tts-http-relay-api-key")
	v.RegisterAlias("tts.cli_path", "tts-cli-path")
	v.RegisterAlias("tts.cli_config_path", "tts-cli-config-path")
	v.RegisterAlias("tts.model_manifest_path", "tts-model-manifest-path")
	v.RegisterAlias("tts.ort_library_path", "tts-ort-library-path")
	v.RegisterAlias("tts.concurrency", "tts-concurrency")
	v.RegisterAlias("tts.quiet", "tts-quiet")
	v.RegisterAlias("mixer.normalize", "mixer-normalize")
	v.RegisterAlias("mixer.compression_level", "mixer-compression-level")
	v.RegisterAlias("mixer.crossfade_ms", "mixer-crossfade-ms")
	v.RegisterAlias("mixer.spatial", "mixer-spatial")
	v.RegisterAlias("log_level", "log-level")
}
