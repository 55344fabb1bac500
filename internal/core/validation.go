package core

// validation.go checks form input before anything reaches the store.
//
// Every rule produces a ValidationError attached to a single field, so the
// presentation layer can show the message next to the offending input.
// Validation never mutates state; the Service calls it before each create
// or update and rejects the whole request if any field fails.

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the format used for all date-string fields.
const DateLayout = "2006-01-02"

// Truck bounds.
const (
	MinTruckYear     = 1900
	MaxTruckCapacity = 200000
	MaxTruckMileage  = 2000000
)

// now is overridden in tests that depend on the current year.
var now = time.Now

// ErrSameRoute is returned when a load starts and ends in the same place.
var ErrSameRoute = errors.New("origin and destination must be different")

// MaxTruckYear is the latest accepted model year, one past the current year.
func MaxTruckYear() int {
	return now().Year() + 1
}

// CheckRoute rejects a load whose origin equals its destination.
func CheckRoute(origin, destination string) error {
	if origin == destination {
		return ErrSameRoute
	}
	return nil
}

// CheckTruckBounds applies the year, capacity and mileage limits of the
// truck form to a record that did not come through the form.
func CheckTruckBounds(t Truck) error {
	switch {
	case t.Year < MinTruckYear || t.Year > MaxTruckYear():
		return fmt.Errorf("year %d outside %d..%d", t.Year, MinTruckYear, MaxTruckYear())
	case t.Capacity < 1 || t.Capacity > MaxTruckCapacity:
		return fmt.Errorf("capacity %d outside 1..%d", t.Capacity, MaxTruckCapacity)
	case t.Mileage < 0 || t.Mileage > MaxTruckMileage:
		return fmt.Errorf("mileage %d outside 0..%d", t.Mileage, MaxTruckMileage)
	}
	return nil
}

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Form field name
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects all field errors of one submission.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Field returns the first message attached to field, or "".
func (ve ValidationErrors) Field(field string) string {
	for _, e := range ve {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

func (ve ValidationErrors) orNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// LoadInput is the user-editable part of a Load.
type LoadInput struct {
	Status      string
	Origin      string
	Destination string
	ClientName  string
	CarrierName string
}

// Validate checks the input and returns the normalized load (without id).
func (in LoadInput) Validate() (Load, error) {
	var errs ValidationErrors

	status, err := ParseLoadStatus(in.Status)
	if strings.TrimSpace(in.Status) == "" {
		errs = append(errs, ValidationError{Field: "status", Message: "Status is required."})
	} else if err != nil {
		errs = append(errs, ValidationError{Field: "status", Message: "Status must be one of: pick up, in route, delivered."})
	}

	errs = minLength(errs, "origin", "Origin", in.Origin, 2)
	errs = minLength(errs, "destination", "Destination", in.Destination, 2)
	errs = minLength(errs, "client_name", "Client Name", in.ClientName, 2)
	errs = minLength(errs, "carrier_name", "Carrier Name", in.CarrierName, 2)

	if in.Origin == in.Destination && errs.Field("destination") == "" {
		errs = append(errs, ValidationError{Field: "destination", Message: "Origin and destination must be different."})
	}

	if err := errs.orNil(); err != nil {
		return Load{}, err
	}

	return Load{
		Status:      status,
		Origin:      in.Origin,
		Destination: in.Destination,
		ClientName:  in.ClientName,
		CarrierName: in.CarrierName,
	}, nil
}

// DriverInput is the user-editable part of a Driver.
// Status, rating and completed loads are maintained by the system.
type DriverInput struct {
	Name          string
	Location      string
	Phone         string
	Email         string
	LicenseNumber string
	LicenseExpiry string
}

// Validate checks the input and returns a driver carrying only the form fields.
func (in DriverInput) Validate() (Driver, error) {
	var errs ValidationErrors

	errs = minLength(errs, "name", "Full Name", in.Name, 2)
	errs = minLength(errs, "location", "Current Location", in.Location, 2)
	errs = minLength(errs, "phone", "Phone Number", in.Phone, 10)
	if !validEmail(in.Email) {
		errs = append(errs, ValidationError{Field: "email", Message: "Please enter a valid email address."})
	}
	errs = minLength(errs, "licenseNumber", "License Number", in.LicenseNumber, 5)
	errs = requiredDate(errs, "licenseExpiry", "License Expiry", in.LicenseExpiry)

	if err := errs.orNil(); err != nil {
		return Driver{}, err
	}

	return Driver{
		Name:          in.Name,
		Location:      in.Location,
		Phone:         in.Phone,
		Email:         in.Email,
		LicenseNumber: in.LicenseNumber,
		LicenseExpiry: in.LicenseExpiry,
	}, nil
}

// TruckInput is the user-editable part of a Truck.
type TruckInput struct {
	LicensePlate    string
	Model           string
	Year            int
	Capacity        int
	Location        string
	Mileage         int
	LastMaintenance string
	NextMaintenance string
	FuelType        string
}

// Validate checks the input and returns a truck carrying only the form fields.
func (in TruckInput) Validate() (Truck, error) {
	var errs ValidationErrors

	errs = minLength(errs, "licensePlate", "License Plate", in.LicensePlate, 2)
	errs = minLength(errs, "model", "Model", in.Model, 2)

	maxYear := MaxTruckYear()
	switch {
	case in.Year < MinTruckYear:
		errs = append(errs, ValidationError{Field: "year", Message: "Year must be 1900 or later."})
	case in.Year > maxYear:
		errs = append(errs, ValidationError{Field: "year", Message: fmt.Sprintf("Year cannot be later than %d.", maxYear)})
	}

	switch {
	case in.Capacity < 1:
		errs = append(errs, ValidationError{Field: "capacity", Message: "Capacity must be greater than 0."})
	case in.Capacity > MaxTruckCapacity:
		errs = append(errs, ValidationError{Field: "capacity", Message: "Capacity cannot exceed 200,000 lbs."})
	}

	errs = minLength(errs, "location", "Location", in.Location, 2)

	switch {
	case in.Mileage < 0:
		errs = append(errs, ValidationError{Field: "mileage", Message: "Mileage cannot be negative."})
	case in.Mileage > MaxTruckMileage:
		errs = append(errs, ValidationError{Field: "mileage", Message: "Mileage cannot exceed 2,000,000 miles."})
	}

	errs = requiredDate(errs, "lastMaintenance", "Last Maintenance date", in.LastMaintenance)
	errs = requiredDate(errs, "nextMaintenance", "Next Maintenance date", in.NextMaintenance)

	fuel, err := ParseFuelType(in.FuelType)
	if err != nil {
		errs = append(errs, ValidationError{Field: "fuelType", Message: "Fuel Type is required."})
	}

	if err := errs.orNil(); err != nil {
		return Truck{}, err
	}

	return Truck{
		LicensePlate:    in.LicensePlate,
		Model:           in.Model,
		Year:            in.Year,
		Capacity:        in.Capacity,
		Location:        in.Location,
		Mileage:         in.Mileage,
		LastMaintenance: in.LastMaintenance,
		NextMaintenance: in.NextMaintenance,
		FuelType:        fuel,
	}, nil
}

// validateImported applies the import rules to a decoded CSV record.
// Imports are checked for enum membership and route sanity only; the
// length minimums of the interactive form do not apply.
func validateImported(rec ImportedLoad) (Load, error) {
	status, err := ParseLoadStatus(rec.Status)
	if err != nil {
		return Load{}, err
	}
	if err := CheckRoute(rec.Origin, rec.Destination); err != nil {
		return Load{}, err
	}
	return Load{
		Status:      status,
		Origin:      rec.Origin,
		Destination: rec.Destination,
		ClientName:  rec.ClientName,
		CarrierName: rec.CarrierName,
	}, nil
}

func minLength(errs ValidationErrors, field, label, value string, n int) ValidationErrors {
	if utf8.RuneCountInString(value) < n {
		return append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %d characters.", label, n),
		})
	}
	return errs
}

func requiredDate(errs ValidationErrors, field, label, value string) ValidationErrors {
	if value == "" {
		return append(errs, ValidationError{Field: field, Message: label + " is required."})
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return append(errs, ValidationError{Field: field, Message: label + " must be a date (YYYY-MM-DD)."})
	}
	return errs
}

// validEmail accepts a bare address with a dotted domain.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
