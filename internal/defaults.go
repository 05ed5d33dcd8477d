package internal

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// defaultsFile is the YAML layout of SHIPPING_DEFAULTS_FILE.
// Addresses are free text and go through the same parser as user input.
type defaultsFile struct {
	From      string              `yaml:"from"`
	To        string              `yaml:"to"`
	Parcel    shipping.Parcel     `yaml:"parcel"`
	IsReturn  *bool               `yaml:"is_return"`
	FlatRates []shipping.FlatRate `yaml:"flat_rates"`
}

// envDefaults reads the fallback addresses and parcel from the environment.
// Address variables may use a literal "\n" to separate lines.
func envDefaults() shipping.Defaults {
	return shipping.Defaults{
		From: address.Parse(unescapeLines(getEnv("DEFAULT_FROM_ADDRESS", ""))),
		To:   address.Parse(unescapeLines(getEnv("DEFAULT_TO_ADDRESS", ""))),
		Parcel: shipping.Parcel{
			Length:       getEnv("DEFAULT_PARCEL_LENGTH", "10"),
			Width:        getEnv("DEFAULT_PARCEL_WIDTH", "8"),
			Height:       getEnv("DEFAULT_PARCEL_HEIGHT", "4"),
			Weight:       getEnv("DEFAULT_PARCEL_WEIGHT", "16"),
			DistanceUnit: getEnv("DEFAULT_PARCEL_DISTANCE_UNIT", shipping.UnitInch),
			MassUnit:     getEnv("DEFAULT_PARCEL_MASS_UNIT", shipping.UnitOunce),
		},
		IsReturn: getEnvBool("SHIPMENT_IS_RETURN", true),
	}
}

func defaultFlatRates() []shipping.FlatRate {
	return []shipping.FlatRate{
		{Code: "flat_ground", Service: "Ground", Price: decimal.RequireFromString("8.50"), Days: 5},
		{Code: "flat_priority", Service: "Priority", Price: decimal.RequireFromString("14.00"), Days: 2},
	}
}

func unescapeLines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// LoadDefaultsFile overlays shipping defaults and flat rates from a YAML file.
// Only the keys present in the file replace the current values.
func (c *Config) LoadDefaultsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read defaults file: %w", err)
	}
	return c.applyDefaults(data)
}

func (c *Config) applyDefaults(data []byte) error {
	var f defaultsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("failed to parse defaults file: %w", err)
	}

	if from := address.Parse(f.From); !from.IsEmpty() {
		c.Defaults.From = from
	}
	if to := address.Parse(f.To); !to.IsEmpty() {
		c.Defaults.To = to
	}

	overlay := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	p := &c.Defaults.Parcel
	overlay(&p.Length, f.Parcel.Length)
	overlay(&p.Width, f.Parcel.Width)
	overlay(&p.Height, f.Parcel.Height)
	overlay(&p.Weight, f.Parcel.Weight)
	overlay(&p.DistanceUnit, f.Parcel.DistanceUnit)
	overlay(&p.MassUnit, f.Parcel.MassUnit)

	if err := shipping.ValidateParcel(p.Normalize()); err != nil {
		return fmt.Errorf("invalid default parcel: %w", err)
	}

	if f.IsReturn != nil {
		c.Defaults.IsReturn = *f.IsReturn
	}

	if len(f.FlatRates) > 0 {
		for _, r := range f.FlatRates {
			if r.Code == "" {
				return fmt.Errorf("flat rate %q has no code", r.Service)
			}
		}
		c.FlatRates = f.FlatRates
	}

	return nil
}
