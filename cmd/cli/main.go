package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"evcharge/internal/analysis"
	"evcharge/internal/config"
	"evcharge/internal/driver"
)

var log = logrus.New()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config sim.env")
	fmt.Println("  cli compare --config sim.env")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run executes every SIMULAR_* policy enabled in the config and writes tables to OUTPUT_DIR")
	fmt.Println("  - compare does the same, then ranks the policies per building by unmet-demand ticks")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to KEY=VALUE config file")
	_ = fs.Parse(args)

	cfg := mustLoadConfig(*cfgPath)
	setLogLevel(cfg.LogLevel)

	result, err := driver.Run(cfg)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	for _, s := range result.Summaries {
		log.Infof("%s/%s: %d ticks, table=%s", s.Building, s.Policy, s.TicksRun, s.OutputTable)
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to KEY=VALUE config file")
	_ = fs.Parse(args)

	cfg := mustLoadConfig(*cfgPath)
	setLogLevel(cfg.LogLevel)

	result, err := driver.Run(cfg)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	ranked := analysis.RankByUnmetDemand(result.Summaries)
	for building, rows := range ranked {
		fmt.Printf("%s:\n", building)
		fmt.Printf("  %-4s %-12s %-12s %-12s %-10s\n", "rank", "policy", "unmet-ticks", "mean-ratio", "kwh")
		for _, r := range rows {
			fmt.Printf("  %-4d %-12s %-12d %-12.2f %-10.2f\n", r.Rank, r.Policy, r.UnmetDemandTicks, r.MeanBatteryRatio, r.EnergyDelivered)
		}
	}
}

func mustLoadConfig(path string) *config.Config {
	if path == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("loading config %q: %v", path, err)
	}
	return cfg
}

func setLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}
