// Package driver wires Clock, RandomSource, Config, table I/O and the
// scheduler into end-to-end simulation runs.
package driver

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"evcharge/internal/clock"
	"evcharge/internal/config"
	"evcharge/internal/model"
	"evcharge/internal/randsrc"
	"evcharge/internal/scheduler"
	"evcharge/internal/simerr"
	"evcharge/internal/simio"
)

// startDate anchors every run's calendar day; only the time-of-day varies
// across ticks, and the clock itself advances the date when it wraps.
var startDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// BuildingSummary is the per (building, policy) result handed back after a
// run, used by the CLI and HTTP API.
type BuildingSummary struct {
	Building     string
	Policy       model.PolicyKind
	TicksRun     int
	FinalRatios  map[string]float64 // vehicle name -> final battery ratio
	OutputTable  string
	PriorityFile string // empty unless Policy == PolicyPriority

	MeanBatteryRatio float64
	UnmetDemandTicks int
	EnergyDelivered  float64 // kWh, summed across the run
}

type runnerStats struct {
	ratioSum        float64
	ratioCount      int
	unmetTicks      int
	energyDelivered float64
}

// Result is the outcome of one Run.
type Result struct {
	Summaries []BuildingSummary
}

// Run loads cfg's input table, builds one template building per header
// column, clones it per enabled policy, and steps every runner tick by
// tick, writing output tables into cfg.OutputDir.
func Run(cfg *config.Config) (*Result, error) {
	table, err := simio.ReadTable(cfg.InputFile)
	if err != nil {
		return nil, err
	}
	if len(table.Buildings) == 0 {
		return nil, simerr.Config("NO_BUILDINGS_CONFIGURED", "input table names no buildings", nil)
	}

	rng := randsrc.New(cfg.Seed)
	tick := time.Duration(cfg.MinsPorCiclo) * time.Minute
	manageCap := time.Duration(cfg.TopeTiempoDeManejo) * time.Minute

	needsChargeModel := model.NeedsChargeDayTotal
	if cfg.NeedsChargeModel == "next_trip" {
		needsChargeModel = model.NeedsChargeNextTrip
	}

	desde, err := tickAlignedTime(cfg.HoraPrimeraSalida)
	if err != nil {
		return nil, err
	}
	hasta, err := tickAlignedTime(cfg.HoraUltimoRegreso)
	if err != nil {
		return nil, err
	}

	var highDemandStart, highDemandEnd int
	if cfg.HighDemandSkip {
		highDemandStart, err = clock.MinutesSinceMidnight(cfg.HighDemandInicio)
		if err != nil {
			return nil, err
		}
		highDemandEnd, err = clock.MinutesSinceMidnight(cfg.HighDemandFinal)
		if err != nil {
			return nil, err
		}
	}

	tickCfg := scheduler.TickConfig{
		Tick:               tick,
		ManageCap:          manageCap,
		NeedsChargeModel:   needsChargeModel,
		HighDemandSkip:     cfg.HighDemandSkip,
		HighDemandStartMin: highDemandStart,
		HighDemandEndMin:   highDemandEnd,
	}

	var enabled []model.PolicyKind
	if cfg.SimularFIFO {
		enabled = append(enabled, model.PolicyFIFO)
	}
	if cfg.SimularRoundRobin {
		enabled = append(enabled, model.PolicyRoundRobin)
	}
	if cfg.SimularInteligente {
		enabled = append(enabled, model.PolicyPriority)
	}
	if len(enabled) == 0 {
		return nil, simerr.Config("NO_POLICIES_ENABLED", "no SIMULAR_* policy flag is set", nil)
	}

	writer := simio.NewWriter(cfg.OutputDir, cfg.OutputFormat)
	runners := make([]*scheduler.Runner, 0, len(table.Buildings)*len(enabled))
	tableNames := make(map[*scheduler.Runner]string)
	priorityNames := make(map[*scheduler.Runner]string)

	for _, name := range table.Buildings {
		template, err := buildTemplate(rng, name, cfg, desde, hasta, tick)
		if err != nil {
			return nil, err
		}

		for _, kind := range enabled {
			b := template.Clone()
			b.Policy = kind
			r := scheduler.NewRunner(b, tickCfg)
			runners = append(runners, r)

			tableName := fmt.Sprintf("%s %s", name, kind)
			tableNames[r] = tableName
			header := []string{"Tiempo", "Potencia Disponible", "Gasto de Cargadores"}
			for _, v := range b.Vehicles {
				header = append(header, v.Name)
			}
			writer.CreateTable(tableName, header)

			if kind == model.PolicyPriority {
				prioName := fmt.Sprintf("Prioridades %s", name)
				priorityNames[r] = prioName
				phead := []string{"Tiempo"}
				for _, v := range b.Vehicles {
					phead = append(phead, v.Name)
				}
				writer.CreateTable(prioName, phead)
			}
		}
	}

	cl := clock.New(startDate)
	summaries := make([]BuildingSummary, 0, len(runners))
	stats := make(map[*scheduler.Runner]*runnerStats, len(runners))
	for _, r := range runners {
		stats[r] = &runnerStats{}
	}

	for _, row := range table.Rows {
		t, err := cl.SetHHMM(row["Tiempo"])
		if err != nil {
			return nil, err
		}

		for _, r := range runners {
			pctStr := row[r.Building.Name]
			pct, perr := parsePercent(pctStr)
			if perr != nil {
				return nil, simerr.Input("MISSING_CONSUMPTION", fmt.Sprintf("building %s at %s: %v", r.Building.Name, row["Tiempo"], perr), nil)
			}

			tickRow, prioRow, err := r.RunTick(t, pct)
			if err != nil {
				return nil, err
			}

			outRow := []string{tickRow.Time, formatFloat(tickRow.AvailablePower), formatFloat(tickRow.PowerUsed)}
			for _, ratio := range tickRow.BatteryRatios {
				outRow = append(outRow, formatFloat(ratio))
			}
			writer.AppendRow(tableNames[r], outRow)

			if prioRow != nil {
				prow := []string{prioRow.Time}
				for _, p := range prioRow.Priorities {
					prow = append(prow, formatFloat(p))
				}
				writer.AppendRow(priorityNames[r], prow)
			}

			st := stats[r]
			st.energyDelivered += tickRow.PowerUsed
			for _, ratio := range tickRow.BatteryRatios {
				st.ratioSum += ratio
				st.ratioCount++
			}
			if tickRow.UnmetDemand {
				st.unmetTicks++
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return nil, err
	}

	for _, r := range runners {
		ratios := make(map[string]float64, len(r.Building.Vehicles))
		for _, v := range r.Building.Vehicles {
			ratios[v.Name] = v.BatteryRatio()
		}
		st := stats[r]
		mean := 0.0
		if st.ratioCount > 0 {
			mean = st.ratioSum / float64(st.ratioCount)
		}
		summaries = append(summaries, BuildingSummary{
			Building:         r.Building.Name,
			Policy:           r.Building.Policy,
			TicksRun:         len(table.Rows),
			FinalRatios:      ratios,
			OutputTable:      tableNames[r],
			PriorityFile:     priorityNames[r],
			MeanBatteryRatio: mean,
			UnmetDemandTicks: st.unmetTicks,
			EnergyDelivered:  st.energyDelivered,
		})
	}

	return &Result{Summaries: summaries}, nil
}

func buildTemplate(rng *randsrc.Source, name string, cfg *config.Config, desde, hasta time.Time, tick time.Duration) (*model.Building, error) {
	k := cfg.CantSalidas
	if cfg.MinSalidas != 0 || cfg.MaxSalidas != 0 {
		k = rng.UniformInt(cfg.MinSalidas, cfg.MaxSalidas)
	}

	b := &model.Building{
		Name: name,
		Power: model.PowerModel{
			DeclaredPower:   cfg.PotenciaDeclarada,
			ChargerPower:    cfg.PotenciaCargadores,
			MinChargerPower: cfg.PotenciaMinCargadores,
			ScalePercent:    cfg.ScalePercent,
			LimitChargers:   cfg.LimitarCargadores,
			MaxChargers:     cfg.TopeDeCargadores,
		},
		LastServedIndex: -1,
	}

	if cfg.HayFalla {
		start, err := clock.MinutesSinceMidnight(cfg.InicioHorarioFalla)
		if err != nil {
			return nil, err
		}
		end, err := clock.MinutesSinceMidnight(cfg.FinalHorarioFalla)
		if err != nil {
			return nil, err
		}
		b.Power.Fault = model.FaultWindow{Enabled: true, StartMin: start, EndMin: end, ReductionPercent: cfg.ReduccionEnFalla}
	}

	for i := 0; i < cfg.VehiculosPorEdificio; i++ {
		maxBattery := rng.NormalTruncated(cfg.AvgBateriaMax, math.Sqrt(cfg.VarBateriaMax))
		initialBattery := rng.NormalTruncated(cfg.AvgBateriaIni, math.Sqrt(cfg.VarBateriaIni))
		if initialBattery > maxBattery {
			initialBattery = maxBattery
		}
		efficiency := rng.NormalTruncated(cfg.AvgRendimiento, math.Sqrt(cfg.VarRendimiento))

		trips, err := model.NewTripPlan(rng, desde, hasta, k, tick, time.Duration(cfg.TopeTiempoDeManejo)*time.Minute)
		if err != nil {
			return nil, err
		}

		v := &model.Vehicle{
			Name:            fmt.Sprintf("%s-V%d", name, i+1),
			MaxBattery:      maxBattery,
			Battery:         initialBattery,
			Efficiency:      efficiency,
			AvgSpeedKmh:     cfg.VelocidadPromedio,
			Trips:           trips,
			Present:         true,
			HighDemandSlack: cfg.HighDemandSlack,
		}
		b.Vehicles = append(b.Vehicles, v)
	}

	return b, nil
}

func tickAlignedTime(hhmm string) (time.Time, error) {
	mins, err := clock.MinutesSinceMidnight(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return startDate.Add(time.Duration(mins) * time.Minute), nil
}

func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing consumption value")
	}
	return strconv.ParseFloat(s, 64)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
