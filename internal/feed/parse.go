package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedPayload marks a payload that is empty, not JSON, or not the expected shape.
var ErrMalformedPayload = errors.New("malformed payload")

var validate = validator.New()

func decode(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrMalformedPayload, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: validate: %v", ErrMalformedPayload, err)
	}
	return nil
}

// ParseSchedule decodes and validates a schedule feed.
func ParseSchedule(data []byte) (*ScheduleFeed, error) {
	var f ScheduleFeed
	if err := decode(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseDriverStandings decodes a standings feed that must carry driver standings.
func ParseDriverStandings(data []byte) (*StandingsFeed, error) {
	var f StandingsFeed
	if err := decode(data, &f); err != nil {
		return nil, err
	}
	if len(f.Drivers()) == 0 {
		return nil, fmt.Errorf("%w: no driver standings", ErrMalformedPayload)
	}
	return &f, nil
}

// ParseConstructorStandings decodes a standings feed that must carry constructor standings.
func ParseConstructorStandings(data []byte) (*StandingsFeed, error) {
	var f StandingsFeed
	if err := decode(data, &f); err != nil {
		return nil, err
	}
	if len(f.Constructors()) == 0 {
		return nil, fmt.Errorf("%w: no constructor standings", ErrMalformedPayload)
	}
	return &f, nil
}

// ValidateSchedule, ValidateDriverStandings and ValidateConstructorStandings adapt the
// parsers to the fetcher's payload check.
func ValidateSchedule(data []byte) error {
	_, err := ParseSchedule(data)
	return err
}

func ValidateDriverStandings(data []byte) error {
	_, err := ParseDriverStandings(data)
	return err
}

func ValidateConstructorStandings(data []byte) error {
	_, err := ParseConstructorStandings(data)
	return err
}
