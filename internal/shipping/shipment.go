package shipping

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Distance and mass units accepted on a Parcel.
const (
	UnitInch       = "in"
	UnitCentimeter = "cm"
	UnitOunce      = "oz"
	UnitPound      = "lb"
	UnitGram       = "g"
	UnitKilogram   = "kg"
)

var (
	inchesPerCm   = decimal.RequireFromString("0.393701")
	ouncesPerLb   = decimal.NewFromInt(16)
	ouncesPerGram = decimal.RequireFromString("0.035274")
	ouncesPerKg   = decimal.RequireFromString("35.274")
)

// Parcel holds package dimensions as entered by the user: numeric strings
// tagged with their units.
type Parcel struct {
	Length       string `json:"length" yaml:"length" validate:"required,numeric"`
	Width        string `json:"width" yaml:"width" validate:"required,numeric"`
	Height       string `json:"height" yaml:"height" validate:"required,numeric"`
	Weight       string `json:"weight" yaml:"weight" validate:"required,numeric"`
	DistanceUnit string `json:"distance_unit" yaml:"distance_unit" validate:"required,oneof=in cm"`
	MassUnit     string `json:"mass_unit" yaml:"mass_unit" validate:"required,oneof=oz lb g kg"`
}

// IsBlank reports whether no dimension or weight was entered.
func (p Parcel) IsBlank() bool {
	return p.Length == "" && p.Width == "" && p.Height == "" && p.Weight == ""
}

// Normalize trims every field and lower-cases the unit tags.
func (p Parcel) Normalize() Parcel {
	return Parcel{
		Length:       strings.TrimSpace(p.Length),
		Width:        strings.TrimSpace(p.Width),
		Height:       strings.TrimSpace(p.Height),
		Weight:       strings.TrimSpace(p.Weight),
		DistanceUnit: strings.ToLower(strings.TrimSpace(p.DistanceUnit)),
		MassUnit:     strings.ToLower(strings.TrimSpace(p.MassUnit)),
	}
}

// WithDefaults returns the normalized parcel with blank fields taken from def.
// Units still blank afterwards default to inches and ounces.
func (p Parcel) WithDefaults(def Parcel) Parcel {
	p = p.Normalize()
	def = def.Normalize()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&p.Length, def.Length)
	fill(&p.Width, def.Width)
	fill(&p.Height, def.Height)
	fill(&p.Weight, def.Weight)
	fill(&p.DistanceUnit, def.DistanceUnit)
	fill(&p.MassUnit, def.MassUnit)
	fill(&p.DistanceUnit, UnitInch)
	fill(&p.MassUnit, UnitOunce)
	return p
}

// Inches returns length, width and height converted to inches.
// The parcel must have passed ValidateParcel.
func (p Parcel) Inches() (length, width, height float64) {
	conv := func(s string) float64 {
		d := decimal.RequireFromString(s)
		if p.DistanceUnit == UnitCentimeter {
			d = d.Mul(inchesPerCm)
		}
		return d.Round(2).InexactFloat64()
	}
	return conv(p.Length), conv(p.Width), conv(p.Height)
}

// Ounces returns the weight converted to ounces.
// The parcel must have passed ValidateParcel.
func (p Parcel) Ounces() float64 {
	d := decimal.RequireFromString(p.Weight)
	switch p.MassUnit {
	case UnitPound:
		d = d.Mul(ouncesPerLb)
	case UnitGram:
		d = d.Mul(ouncesPerGram)
	case UnitKilogram:
		d = d.Mul(ouncesPerKg)
	}
	return d.Round(2).InexactFloat64()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateParcel checks that every dimension is a positive number and the
// unit tags are known. Failures are returned as a *domain.ValidationError
// keyed by field name.
func ValidateParcel(p Parcel) error {
	const op = "parcel.validate"

	var verr error
	err := validate.Struct(p)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			verr = addFieldError(verr, op, fe.Field(), fieldMessage(fe))
		}
	} else if err != nil {
		return domain.Internal(err, op, "failed to validate parcel")
	}

	positive := []struct {
		field string
		value string
	}{
		{"length", p.Length},
		{"width", p.Width},
		{"height", p.Height},
		{"weight", p.Weight},
	}
	for _, f := range positive {
		if _, bad := domain.GetValidationFields(verr)[f.field]; bad {
			continue
		}
		d, err := decimal.NewFromString(f.value)
		if err != nil || !d.IsPositive() {
			verr = addFieldError(verr, op, f.field, "must be greater than zero")
		}
	}

	return verr
}

func addFieldError(err error, op, field, message string) error {
	if err == nil {
		return domain.NewValidationError(op, field, message)
	}
	return domain.AddFieldError(err, field, message)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must be a number"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// Shipment is the request sent to the rate/label service.
type Shipment struct {
	From      address.ParsedAddress
	To        address.ParsedAddress
	Parcel    Parcel
	Reference string
	IsReturn  bool
}

// Defaults are the fallbacks applied when the user leaves an address or
// parcel field blank.
type Defaults struct {
	From     address.ParsedAddress `yaml:"from"`
	To       address.ParsedAddress `yaml:"to"`
	Parcel   Parcel                `yaml:"parcel"`
	IsReturn bool                  `yaml:"is_return"`
}

// BuildShipment merges two parsed addresses and a parcel into a shipment.
// An address that parsed to the empty record is replaced by the matching
// default; blank parcel fields take the default parcel's values.
func BuildShipment(from, to address.ParsedAddress, parcel Parcel, defaults Defaults) Shipment {
	if from.IsEmpty() {
		from = defaults.From
	}
	if to.IsEmpty() {
		to = defaults.To
	}

	parcel = parcel.WithDefaults(defaults.Parcel)

	return Shipment{
		From:     from,
		To:       to,
		Parcel:   parcel,
		IsReturn: defaults.IsReturn,
	}
}
