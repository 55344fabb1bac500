package core

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tone is the color family used for a status badge.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneBlue   Tone = "blue"
	ToneYellow Tone = "yellow"
	ToneOrange Tone = "orange"
	ToneRed    Tone = "red"
	TonePurple Tone = "purple"
	ToneGray   Tone = "gray"
)

var printer = message.NewPrinter(language.English)

// Capitalized upper-cases the first letter of each space-separated word
// and lower-cases the rest: "pick up" -> "Pick Up". Hyphens do not start a
// new word, so cases.Title is not used directly: "in-use" -> "In-use".
func Capitalized(s string) string {
	// Casers keep state and are not safe for concurrent use.
	upper := cases.Upper(language.English)
	lower := cases.Lower(language.English)

	words := strings.Split(s, " ")
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// FormatCapacity renders a truck capacity: 80000 -> "80,000 lbs".
func FormatCapacity(lbs int) string {
	return printer.Sprintf("%d lbs", lbs)
}

// FormatMileage renders an odometer reading: 125000 -> "125,000 mi".
func FormatMileage(miles int) string {
	return printer.Sprintf("%d mi", miles)
}

// FormatCount renders a counter with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// LoadTone returns the badge tone for a load status. Case-insensitive.
func LoadTone(s LoadStatus) Tone {
	switch LoadStatus(strings.ToLower(string(s))) {
	case StatusDelivered:
		return ToneGreen
	case StatusInRoute:
		return ToneBlue
	case StatusPickUp:
		return ToneYellow
	default:
		return ToneGray
	}
}

// DriverTone returns the badge tone for a driver status.
func DriverTone(s DriverStatus) Tone {
	switch DriverStatus(strings.ToLower(string(s))) {
	case DriverAvailable:
		return ToneGreen
	case DriverBusy:
		return ToneYellow
	case DriverOffline:
		return ToneRed
	default:
		return ToneGray
	}
}

// TruckTone returns the badge tone for a truck status.
func TruckTone(s TruckStatus) Tone {
	switch TruckStatus(strings.ToLower(string(s))) {
	case TruckAvailable:
		return ToneGreen
	case TruckInUse:
		return ToneBlue
	case TruckMaintenance:
		return ToneYellow
	case TruckOutOfService:
		return ToneRed
	default:
		return ToneGray
	}
}

// FuelTone returns the badge tone for a fuel type.
func FuelTone(f FuelType) Tone {
	switch FuelType(strings.ToLower(string(f))) {
	case FuelElectric:
		return ToneGreen
	case FuelHybrid:
		return ToneBlue
	case FuelDiesel:
		return ToneOrange
	case FuelGasoline:
		return TonePurple
	default:
		return ToneGray
	}
}
