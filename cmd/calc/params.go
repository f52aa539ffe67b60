package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"contract_calc/internal/models"
)

const (
	kindMartingale = "martingale"
	kindContract   = "contract"
)

// paramsFile — входной YAML. Незаданные поля мартингейла берутся из дефолтов конфига.
type paramsFile struct {
	Kind       string                         `yaml:"kind"`
	Martingale models.StrategyParameters      `yaml:"martingale"`
	Contract   models.StandardTradeParameters `yaml:"contract"`
}

func loadParams(path string, defaults paramsFile) (paramsFile, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return paramsFile{}, errors.Wrap(err, "read params file")
	}

	out := defaults
	if err := yaml.UnmarshalStrict(bs, &out); err != nil {
		return paramsFile{}, errors.Wrap(err, fmt.Sprintf("parse %s", filepath.Base(path)))
	}

	out.Kind = strings.ToLower(strings.TrimSpace(out.Kind))
	if out.Kind == "" {
		out.Kind = kindMartingale
	}
	if out.Kind != kindMartingale && out.Kind != kindContract {
		return paramsFile{}, errors.Errorf("unknown kind %q, want %s or %s", out.Kind, kindMartingale, kindContract)
	}
	out.Martingale.Direction = models.Direction(strings.ToLower(string(out.Martingale.Direction)))
	out.Contract.Direction = models.Direction(strings.ToLower(string(out.Contract.Direction)))
	return out, nil
}

// writeCSV пишет таблицу в dir под стандартным именем файла.
func writeCSV(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrap(err, "write csv")
	}
	return path, nil
}
