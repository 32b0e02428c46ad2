package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/voyage-estimator/internal/domain/cargo"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/config"
)

// cargoFile accepts either a bare list of cargoes or a document with a
// cargoes key
type cargoFile struct {
	Cargoes []cargo.CargoInput `yaml:"cargoes" validate:"required,min=1,dive"`
}

// readCargoes loads and validates cargo contracts from a YAML or JSON file
func readCargoes(path string) ([]cargo.CargoInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cargo file: %w", err)
	}

	var doc cargoFile
	if err := yaml.Unmarshal(data, &doc); err != nil || len(doc.Cargoes) == 0 {
		var list []cargo.CargoInput
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			if err == nil {
				err = listErr
			}
			return nil, fmt.Errorf("failed to parse cargo file %s: %w", filepath.Base(path), err)
		}
		doc.Cargoes = list
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid cargo file: %w", err)
	}
	return doc.Cargoes, nil
}

// resolveEstimateID resolves the estimate to act on.
// Priority: explicit argument > last estimate saved from this machine.
func resolveEstimateID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no estimate specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no estimate specified and failed to load user config: %w", err)
	}
	if userCfg.LastEstimateID != "" {
		return userCfg.LastEstimateID, nil
	}

	return "", fmt.Errorf("no estimate specified: pass an estimate id or save one with 'voyage-estimator analyze --save'")
}

// rememberEstimate stores id as the default for later estimate commands
func rememberEstimate(id string) error {
	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return err
	}
	return userConfigHandler.SetLastEstimate(id)
}

// defaultCurrency returns the user's preferred currency, or "" when unset
func defaultCurrency() string {
	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return ""
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return ""
	}
	return userCfg.DefaultCurrency
}

// formatMoney renders an amount with two decimals and thousands separators
// (e.g., 1234567.891 -> "1,234,567.89")
func formatMoney(amount float64) string {
	s := decimal.NewFromFloat(amount).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + addThousandsSeparator(whole) + "." + frac
}

// addThousandsSeparator adds commas to a digit string (e.g., "1234567" -> "1,234,567")
func addThousandsSeparator(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func formatDays(days float64) string {
	return decimal.NewFromFloat(days).StringFixed(2)
}
