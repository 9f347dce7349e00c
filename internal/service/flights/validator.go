package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/airfleet/internal/validation"
)

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	combinedLayout = "2006-01-02 15:04"
)

// AirlineDirectory is the slice of airline state the validator reads.
// Satisfied by repository.AirlineRepository.
type AirlineDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
	ServesCity(ctx context.Context, airlineID, cityID int64) (bool, error)
}

// CityDirectory is satisfied by repository.CityRepository.
type CityDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// FlightInput is a candidate flight as submitted. The departure and
// arrival instants arrive either combined ("2006-01-02 15:04") or as
// separate date and time-of-day parts.
type FlightInput struct {
	AirlineID         *int64 `json:"airline"`
	DepartureCityID   *int64 `json:"departure_city"`
	DestinationCityID *int64 `json:"destination_city"`
	DepartureAt       string `json:"departure_at"`
	ArrivalAt         string `json:"arrival_at"`
	DepartureAtDate   string `json:"departure_at_date"`
	DepartureAtTime   string `json:"departure_at_time"`
	ArrivalAtDate     string `json:"arrival_at_date"`
	ArrivalAtTime     string `json:"arrival_at_time"`
}

// normalize fills whichever representation is missing: combined stamps
// are split into date/time parts, and complete part pairs are combined.
// A missing sub-field leaves the combined form empty so the
// missing-field rules fire instead.
func (in *FlightInput) normalize() {
	if in.DepartureAtDate == "" && in.DepartureAtTime == "" && in.DepartureAt != "" {
		if at, err := time.Parse(combinedLayout, in.DepartureAt); err == nil {
			in.DepartureAtDate = at.Format(dateLayout)
			in.DepartureAtTime = at.Format(timeLayout)
		}
	}
	if in.ArrivalAtDate == "" && in.ArrivalAtTime == "" && in.ArrivalAt != "" {
		if at, err := time.Parse(combinedLayout, in.ArrivalAt); err == nil {
			in.ArrivalAtDate = at.Format(dateLayout)
			in.ArrivalAtTime = at.Format(timeLayout)
		}
	}

	if in.DepartureAtDate != "" && in.DepartureAtTime != "" {
		in.DepartureAt = in.DepartureAtDate + " " + in.DepartureAtTime
	} else {
		in.DepartureAt = ""
	}
	if in.ArrivalAtDate != "" && in.ArrivalAtTime != "" {
		in.ArrivalAt = in.ArrivalAtDate + " " + in.ArrivalAtTime
	} else {
		in.ArrivalAt = ""
	}
}

// departureTime returns the combined departure instant when both parts
// parsed.
func (in FlightInput) departureTime() (time.Time, bool) {
	if in.DepartureAt == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(combinedLayout, in.DepartureAt)
	return at, err == nil
}

func (in FlightInput) arrivalTime() (time.Time, bool) {
	if in.ArrivalAt == "" {
		return time.Time{}, false
	}
	at, err := time.Parse(combinedLayout, in.ArrivalAt)
	return at, err == nil
}

// Validator decides whether a candidate flight may exist. It reads
// airline/city/membership state but never mutates anything; every rule
// is evaluated so a submission reports all of its failures at once.
type Validator struct {
	airlines AirlineDirectory
	cities   CityDirectory
	now      func() time.Time
}

func NewValidator(airlines AirlineDirectory, cities CityDirectory) *Validator {
	return &Validator{airlines: airlines, cities: cities, now: time.Now}
}

// Validate normalizes the input in place and runs every rule. A non-nil
// error is a storage failure; rule violations come back in the Errors
// map keyed by field.
func (v *Validator) Validate(ctx context.Context, input *FlightInput) (validation.Errors, error) {
	input.normalize()
	verrs := validation.Errors{}

	if err := v.checkAirline(ctx, input, verrs); err != nil {
		return nil, err
	}
	if err := v.checkCity(ctx, input, verrs, "departure_city", "departure city", input.DepartureCityID); err != nil {
		return nil, err
	}
	if err := v.checkCity(ctx, input, verrs, "destination_city", "destination city", input.DestinationCityID); err != nil {
		return nil, err
	}
	if input.DepartureCityID != nil && input.DestinationCityID != nil && *input.DepartureCityID == *input.DestinationCityID {
		verrs.Add("departure_city", "The departure city and destination city must be different.")
		verrs.Add("destination_city", "The destination city and departure city must be different.")
	}

	v.checkDates(input, verrs)
	v.checkTimes(input, verrs)
	v.checkCombined(input, verrs)

	return verrs, nil
}

func (v *Validator) checkAirline(ctx context.Context, input *FlightInput, verrs validation.Errors) error {
	if input.AirlineID == nil {
		verrs.Add("airline", "The airline field is required.")
		return nil
	}
	exists, err := v.airlines.Exists(ctx, *input.AirlineID)
	if err != nil {
		return err
	}
	if !exists {
		verrs.Add("airline", "The selected airline is invalid.")
	}
	return nil
}

func (v *Validator) checkCity(ctx context.Context, input *FlightInput, verrs validation.Errors, field, attribute string, id *int64) error {
	if id == nil {
		verrs.Add(field, fmt.Sprintf("The %s field is required.", attribute))
		return nil
	}
	exists, err := v.cities.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		verrs.Add(field, fmt.Sprintf("The selected %s is invalid.", attribute))
	}

	// Membership is only decidable against a submitted airline; the
	// missing-airline rule has already fired otherwise.
	if input.AirlineID == nil {
		return nil
	}
	serves, err := v.airlines.ServesCity(ctx, *input.AirlineID, *id)
	if err != nil {
		return err
	}
	if !serves {
		verrs.Add(field, fmt.Sprintf("The %s must be served by the selected airline.", attribute))
	}
	return nil
}

func (v *Validator) checkDates(input *FlightInput, verrs validation.Errors) {
	departureDate, departureOK := requireDate(verrs, "departure_at_date", "departure date", input.DepartureAtDate)
	arrivalDate, arrivalOK := requireDate(verrs, "arrival_at_date", "arrival date", input.ArrivalAtDate)

	if departureOK {
		today := dateOnly(v.now())
		if departureDate.Before(today) {
			verrs.Add("departure_at_date", "The departure date must be a date after or equal to today.")
		}
	}
	if departureOK && arrivalOK && arrivalDate.Before(departureDate) {
		verrs.Add("arrival_at_date", "The arrival date must be a date after or equal to departure date.")
	}
}

func (v *Validator) checkTimes(input *FlightInput, verrs validation.Errors) {
	departureTime, departureOK := requireTime(verrs, "departure_at_time", "departure time", input.DepartureAtTime)
	arrivalTime, arrivalOK := requireTime(verrs, "arrival_at_time", "arrival time", input.ArrivalAtTime)

	// Same-day cross-field rule: with equal calendar dates the arrival
	// time-of-day must be strictly later.
	if departureOK && arrivalOK &&
		input.DepartureAtDate != "" && input.DepartureAtDate == input.ArrivalAtDate &&
		!arrivalTime.After(departureTime) {
		verrs.Add("arrival_at_time", "The arrival time must be a time after the departure time when both the departure date and arrival date are the same.")
	}
}

func (v *Validator) checkCombined(input *FlightInput, verrs validation.Errors) {
	departureAt, departureOK := input.departureTime()
	arrivalAt, arrivalOK := input.arrivalTime()
	if !departureOK || !arrivalOK {
		return
	}
	if !departureAt.Before(arrivalAt) {
		verrs.Add("departure_at", "The departure at must be a date before arrival at.")
		verrs.Add("arrival_at", "The arrival at must be a date after departure at.")
	}
}

func requireDate(verrs validation.Errors, field, attribute, value string) (time.Time, bool) {
	if value == "" {
		verrs.Add(field, fmt.Sprintf("The %s field is required.", attribute))
		return time.Time{}, false
	}
	at, err := time.Parse(dateLayout, value)
	if err != nil {
		verrs.Add(field, fmt.Sprintf("The %s does not match the format Y-m-d.", attribute))
		return time.Time{}, false
	}
	return at, true
}

func requireTime(verrs validation.Errors, field, attribute, value string) (time.Time, bool) {
	if value == "" {
		verrs.Add(field, fmt.Sprintf("The %s field is required.", attribute))
		return time.Time{}, false
	}
	at, err := time.Parse(timeLayout, value)
	if err != nil {
		verrs.Add(field, fmt.Sprintf("The %s does not match the format H:i.", attribute))
		return time.Time{}, false
	}
	return at, true
}

// dateOnly truncates to the calendar date in t's location, re-read in
// UTC so it compares cleanly against parsed date fields.
func dateOnly(t time.Time) time.Time {
	day, _ := time.Parse(dateLayout, t.Format(dateLayout))
	return day
}
