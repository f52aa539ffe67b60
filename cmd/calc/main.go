package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	"contract_calc/internal/modules/config"
	"contract_calc/internal/report"
)

func main() {
	paramsPath := flag.String("params", "configs/params_example.yaml", "YAML file with calculator parameters")
	configPath := flag.String("config", "configs/values_local.yaml", "Service config with calculator defaults")
	csvDir := flag.String("csv-dir", "", "Write the martingale step table as CSV into this directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	defaults := paramsFile{
		Martingale: cfg.Defaults.Strategy(),
		Contract:   models.NewUserSettings(0, cfg.Defaults.Strategy()).Settings.Standard,
	}
	in, err := loadParams(*paramsPath, defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch in.Kind {
	case kindContract:
		res, err := calc.CalculateStandard(in.Contract)
		if err != nil {
			exitValidation(err)
		}
		fmt.Println(report.TermStandard(in.Contract, res))

	default:
		if in.Martingale.MaxAdds > cfg.Limits.MaxAdds {
			fmt.Fprintf(os.Stderr, "Error: max_adds %d exceeds limit %d\n", in.Martingale.MaxAdds, cfg.Limits.MaxAdds)
			os.Exit(1)
		}
		res, err := calc.Simulate(in.Martingale)
		if err != nil {
			exitValidation(err)
		}
		fmt.Println(report.TermMartingale(res))

		if *csvDir != "" {
			path, err := writeCSV(*csvDir, report.ExportFileName(res.Params, "csv"), report.RenderCSV(res))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("CSV: %s\n", path)
		}
		if res.Aborted() {
			os.Exit(2)
		}
	}
}

func exitValidation(err error) {
	var verr calc.ValidationErrors
	if !errors.As(err, &verr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fields := verr.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(os.Stderr, "Invalid parameters:")
	for _, k := range keys {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", k, fields[k])
	}
	os.Exit(1)
}
