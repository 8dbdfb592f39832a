package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// envPrefix - префикс переменных окружения, переопределяющих файл.
const envPrefix = "LEDCMD_"

// Config структура конфигурации.
type Config struct {
	Logger LogConf    // Logger - конфигурация регистратора.
	Codec  CodecConf  // Codec - режим записи образа.
	Report ReportConf // Report - формат отчёта и экспорта.
	ArtNet ArtNetConf // ArtNet - предпросмотр сцены через Art-Net.
	MQTT   MQTTConf   // MQTT - предпросмотр сцены через MQTT.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level string `toml:"log-level"` // Level - уровень логирования.
	Color bool   `toml:"color"`     // Color - принудительно цветной вывод.
}

// CodecConf структура конфигурации.
type CodecConf struct {
	Mode string `toml:"mode"` // Mode - faithful или canonical.
}

// ReportConf структура конфигурации.
type ReportConf struct {
	Format string `toml:"format"` // Format - text, yaml или json.
}

// ArtNetConf структура конфигурации.
type ArtNetConf struct {
	Enabled    bool   `toml:"enabled"`     // Enabled - отправлять кадр в Art-Net.
	CIDR       string `toml:"cidr"`        // CIDR - сеть, в которой ищется интерфейс Art-Net.
	Universe   uint16 `toml:"universe"`    // Universe: старший байт - Net, младший байт - SubUni.
	IntervalMs int    `toml:"interval-ms"` // IntervalMs - период повторной отправки кадра.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	Enabled  bool   `toml:"enabled"`  // Enabled - публиковать кадр в MQTT.
	ClientID string `toml:"clientID"` // ClientID - имя клиента.
	Host     string `toml:"server"`   // Host - адрес MQTT сервера.
	Port     string `toml:"port"`     // Port - порт MQTT сервера.
	User     string `toml:"user"`     // User - логин для подключения к MQTT серверу.
	Password string `toml:"password"` // Password - пароль для подключения к MQTT серверу.
	Qos      byte   `toml:"qos"`      // Qos - качество обслуживания.
	Topic    string `toml:"topic"`    // Topic - корень топиков предпросмотра.
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Logger: LogConf{Level: "info"},
		Codec:  CodecConf{Mode: "faithful"},
		Report: ReportConf{Format: "text"},
		ArtNet: ArtNetConf{CIDR: "192.168.6.0/24", IntervalMs: 1000},
		MQTT:   MQTTConf{ClientID: "ledcommander", Host: "localhost", Port: "1883", Topic: "ledcommander"},
	}
}

// NewConfig конструктор. A missing file leaves the defaults in place;
// LEDCMD_* environment variables are applied last.
func NewConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return &cfg, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return &cfg, err
	}
	return &cfg, cfg.Validate()
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Codec.Mode) {
	case "faithful", "canonical":
	default:
		return fmt.Errorf("codec mode %q: want faithful or canonical", c.Codec.Mode)
	}
	switch strings.ToLower(c.Report.Format) {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("report format %q: want text, yaml or json", c.Report.Format)
	}
	if c.ArtNet.IntervalMs <= 0 {
		return fmt.Errorf("artnet interval-ms must be positive, got %d", c.ArtNet.IntervalMs)
	}
	if c.MQTT.Qos > 2 {
		return fmt.Errorf("mqtt qos %d: want 0, 1 or 2", c.MQTT.Qos)
	}
	return nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"LOG_LEVEL":     &c.Logger.Level,
		"CODEC_MODE":    &c.Codec.Mode,
		"REPORT_FORMAT": &c.Report.Format,
		"ARTNET_CIDR":   &c.ArtNet.CIDR,
		"MQTT_HOST":     &c.MQTT.Host,
		"MQTT_PORT":     &c.MQTT.Port,
		"MQTT_USER":     &c.MQTT.User,
		"MQTT_PASSWORD": &c.MQTT.Password,
		"MQTT_TOPIC":    &c.MQTT.Topic,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"ARTNET_ENABLED": &c.ArtNet.Enabled,
		"MQTT_ENABLED":   &c.MQTT.Enabled,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "ARTNET_UNIVERSE"); ok {
		u, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("%sARTNET_UNIVERSE: %w", envPrefix, err)
		}
		c.ArtNet.Universe = uint16(u)
	}
	return nil
}
