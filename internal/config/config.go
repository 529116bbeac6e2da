// Package config loads the simulator's KEY=VALUE configuration file into a
// typed, validated Config.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"evcharge/internal/simerr"
)

// Config is the fully decoded, defaulted simulation configuration.
type Config struct {
	MinsPorCiclo int // tick length, minutes
	Seed         int64

	SimularFIFO        bool
	SimularRoundRobin   bool
	SimularInteligente bool

	PotenciaDeclarada    float64 // kW
	PotenciaCargadores   float64 // kW per charger
	PotenciaMinCargadores float64 // kW per charger during a fault window
	ScalePercent         float64 // 100 = no derate

	LimitarCargadores bool
	TopeDeCargadores  int

	HayFalla            bool
	InicioHorarioFalla  string
	FinalHorarioFalla   string
	ReduccionEnFalla    float64 // percent of baseline declared power kept during the fault

	CantSalidas int
	MinSalidas  int
	MaxSalidas  int

	HoraPrimeraSalida string
	HoraUltimoRegreso string

	AvgBateriaMax float64
	VarBateriaMax float64
	AvgBateriaIni float64
	VarBateriaIni float64
	AvgRendimiento float64
	VarRendimiento float64
	VelocidadPromedio float64

	TopeTiempoDeManejo int // minutes, long-trip grace cap
	HighDemandSlack    float64

	NeedsChargeModel string // "day_total" or "next_trip"

	HighDemandSkip       bool
	HighDemandInicio     string
	HighDemandFinal      string

	VehiculosPorEdificio int

	OutputFormat string // csv, tsv, xlsx
	InputFile    string
	OutputDir    string

	LogLevel string
}

// Default returns the built-in default configuration, useful for demos and
// tests that don't want to load a file from disk.
func Default() Config {
	return defaults()
}

func defaults() Config {
	return Config{
		MinsPorCiclo:          15,
		Seed:                  20,
		SimularFIFO:           true,
		SimularRoundRobin:     false,
		SimularInteligente:    true,
		PotenciaDeclarada:     250000,
		PotenciaCargadores:    7,
		PotenciaMinCargadores: 7,
		ScalePercent:          100,
		TopeDeCargadores:      3,
		ReduccionEnFalla:      100,
		CantSalidas:           3,
		HoraPrimeraSalida:     "06:00",
		HoraUltimoRegreso:     "22:00",
		AvgBateriaMax:         82.3,
		VarBateriaMax:         28.67,
		AvgBateriaIni:         41.0,
		VarBateriaIni:         28.67,
		AvgRendimiento:        5.97,
		VarRendimiento:        1.16,
		VelocidadPromedio:     50,
		TopeTiempoDeManejo:    90,
		HighDemandSlack:       0.1,
		NeedsChargeModel:      "day_total",
		VehiculosPorEdificio:  5,
		OutputFormat:          "csv",
		OutputDir:             "outputs",
		LogLevel:              "INFO",
	}
}

// Load reads and parses path as a KEY=VALUE file (godotenv's ".env" shape:
// "#" comments, blank lines ignored) layered over the built-in defaults,
// then validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and decodes path without validating, useful for
// inspecting a config before a run.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		return nil, simerr.IO("CONFIG_READ_FAILED", fmt.Sprintf("reading config %q", path), err)
	}

	c := defaults()
	dec := decoder{raw: raw}

	dec.int(&c.MinsPorCiclo, "MINS_POR_CICLO")
	dec.int64(&c.Seed, "SEED")
	dec.bool(&c.SimularFIFO, "SIMULAR_FIFO")
	dec.bool(&c.SimularRoundRobin, "SIMULAR_ROUNDROBIN")
	dec.bool(&c.SimularInteligente, "SIMULAR_INTELIGENTE")
	dec.float(&c.PotenciaDeclarada, "POTENCIA_DECLARADA")
	dec.float(&c.PotenciaCargadores, "POTENCIA_CARGADORES")
	dec.float(&c.PotenciaMinCargadores, "POTENCIA_MIN_CARGADORES")
	dec.bool(&c.LimitarCargadores, "LIMITAR_CARGADORES")
	dec.int(&c.TopeDeCargadores, "TOPE_DE_CARGADORES")
	dec.bool(&c.HayFalla, "HAY_FALLA")
	dec.str(&c.InicioHorarioFalla, "INICIO_HORARIO_FALLA")
	dec.str(&c.FinalHorarioFalla, "FINAL_HORARIO_FALLA")
	dec.float(&c.ReduccionEnFalla, "REDUCCION_EN_FALLA")
	dec.int(&c.CantSalidas, "CANT_SALIDAS")
	dec.int(&c.MinSalidas, "MIN_SALIDAS")
	dec.int(&c.MaxSalidas, "MAX_SALIDAS")
	dec.str(&c.HoraPrimeraSalida, "HORA_PRIMERA_SALIDA")
	dec.str(&c.HoraUltimoRegreso, "HORA_ULTIMO_REGRESO")
	dec.float(&c.AvgBateriaMax, "AVG_BATERIA_MAX")
	dec.float(&c.VarBateriaMax, "VAR_BATERIA_MAX")
	dec.float(&c.AvgBateriaIni, "AVG_BATERIA_INI")
	dec.float(&c.VarBateriaIni, "VAR_BATERIA_INI")
	dec.float(&c.AvgRendimiento, "AVG_RENDIMIENTO")
	dec.float(&c.VarRendimiento, "VAR_RENDIMIENTO")
	dec.float(&c.VelocidadPromedio, "VELOCIDAD_PROMEDIO")
	dec.int(&c.TopeTiempoDeManejo, "TOPE_TIEMPO_DE_MANEJO")
	dec.float(&c.HighDemandSlack, "HIGH_DEMAND_SLACK")
	dec.str(&c.NeedsChargeModel, "NEEDS_CHARGE_MODEL")
	dec.bool(&c.HighDemandSkip, "HIGH_DEMAND_SKIP")
	dec.str(&c.HighDemandInicio, "HIGH_DEMAND_INICIO")
	dec.str(&c.HighDemandFinal, "HIGH_DEMAND_FINAL")
	dec.int(&c.VehiculosPorEdificio, "VEHICULOS_POR_EDIFICIO")
	dec.str(&c.OutputFormat, "OUTPUT_FORMAT")
	dec.str(&c.InputFile, "INPUT_FILE")
	dec.str(&c.OutputDir, "OUTPUT_DIR")
	dec.str(&c.LogLevel, "LOG_LEVEL")

	if dec.err != nil {
		return nil, dec.err
	}

	if c.MinSalidas == 0 && c.MaxSalidas == 0 {
		c.MinSalidas = c.CantSalidas
		c.MaxSalidas = c.CantSalidas
	}
	if c.ScalePercent == 0 {
		c.ScalePercent = 100
	}

	return &c, nil
}

// Validate enforces the ConfigError conditions: unknown output format,
// non-positive powers, invalid trip bounds.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "csv", "tsv", "xlsx":
	default:
		return simerr.Config("UNKNOWN_OUTPUT_FORMAT", fmt.Sprintf("output format %q is not csv, tsv or xlsx", c.OutputFormat), nil)
	}
	if c.PotenciaDeclarada <= 0 {
		return simerr.Config("INVALID_POWER_CONFIG", "POTENCIA_DECLARADA must be > 0", nil)
	}
	if c.PotenciaCargadores <= 0 {
		return simerr.Config("INVALID_POWER_CONFIG", "POTENCIA_CARGADORES must be > 0", nil)
	}
	if c.HayFalla && c.PotenciaMinCargadores <= 0 {
		return simerr.Config("INVALID_POWER_CONFIG", "POTENCIA_MIN_CARGADORES must be > 0 when HAY_FALLA is set", nil)
	}
	if c.MinSalidas < 0 || c.MaxSalidas < c.MinSalidas {
		return simerr.Config("INVALID_TRIP_BOUNDS", fmt.Sprintf("min_salidas=%d max_salidas=%d is not a valid range", c.MinSalidas, c.MaxSalidas), nil)
	}
	if c.MinsPorCiclo <= 0 {
		return simerr.Config("INVALID_TICK_LENGTH", "MINS_POR_CICLO must be > 0", nil)
	}
	switch c.NeedsChargeModel {
	case "day_total", "next_trip":
	default:
		return simerr.Config("INVALID_NEEDS_CHARGE_MODEL", fmt.Sprintf("NEEDS_CHARGE_MODEL %q is not day_total or next_trip", c.NeedsChargeModel), nil)
	}
	return nil
}

// decoder pulls typed values out of the raw KEY=VALUE map, leaving fields
// at their default when a key is absent and recording the first parse
// failure encountered.
type decoder struct {
	raw map[string]string
	err error
}

func (d *decoder) str(dst *string, key string) {
	if v, ok := d.raw[key]; ok && v != "" {
		*dst = v
	}
}

func (d *decoder) int(dst *int, key string) {
	if d.err != nil {
		return
	}
	v, ok := d.raw[key]
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		d.err = simerr.Config("BAD_CONFIG_VALUE", fmt.Sprintf("%s=%q is not an integer", key, v), err)
		return
	}
	*dst = n
}

func (d *decoder) int64(dst *int64, key string) {
	if d.err != nil {
		return
	}
	v, ok := d.raw[key]
	if !ok || v == "" {
		return
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		d.err = simerr.Config("BAD_CONFIG_VALUE", fmt.Sprintf("%s=%q is not an integer", key, v), err)
		return
	}
	*dst = n
}

func (d *decoder) float(dst *float64, key string) {
	if d.err != nil {
		return
	}
	v, ok := d.raw[key]
	if !ok || v == "" {
		return
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		d.err = simerr.Config("BAD_CONFIG_VALUE", fmt.Sprintf("%s=%q is not a number", key, v), err)
		return
	}
	*dst = f
}

func (d *decoder) bool(dst *bool, key string) {
	if d.err != nil {
		return
	}
	v, ok := d.raw[key]
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		d.err = simerr.Config("BAD_CONFIG_VALUE", fmt.Sprintf("%s=%q is not a boolean", key, v), err)
		return
	}
	*dst = b
}
