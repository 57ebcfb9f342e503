package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// MinutesID is a value object identifying a single minutes document
type MinutesID struct {
	value string
}

// NewMinutesID creates a new random MinutesID
func NewMinutesID() MinutesID {
	return MinutesID{value: uuid.New().String()}
}

// NewMinutesIDFromString creates a MinutesID from an existing string
func NewMinutesIDFromString(id string) (MinutesID, error) {
	if id == "" {
		return MinutesID{}, errors.New("minutes ID cannot be empty")
	}
	if !isValidUUID(id) {
		return MinutesID{}, errors.New("minutes ID must be a valid UUID")
	}
	return MinutesID{value: id}, nil
}

// String returns the string representation of the MinutesID
func (id MinutesID) String() string {
	return id.value
}

// Equals checks if two MinutesIDs are equal
func (id MinutesID) Equals(other MinutesID) bool {
	return id.value == other.value
}

// IsZero checks if the MinutesID is the zero value
func (id MinutesID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id MinutesID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *MinutesID) UnmarshalJSON(data []byte) error {
	value, err := unquote(data)
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

// SeriesID is a value object identifying a meeting series
type SeriesID struct {
	value string
}

// NewSeriesID creates a new random SeriesID
func NewSeriesID() SeriesID {
	return SeriesID{value: uuid.New().String()}
}

// NewSeriesIDFromString creates a SeriesID from an existing string
func NewSeriesIDFromString(id string) (SeriesID, error) {
	if id == "" {
		return SeriesID{}, errors.New("series ID cannot be empty")
	}
	if !isValidUUID(id) {
		return SeriesID{}, errors.New("series ID must be a valid UUID")
	}
	return SeriesID{value: id}, nil
}

// String returns the string representation of the SeriesID
func (id SeriesID) String() string {
	return id.value
}

// Equals checks if two SeriesIDs are equal
func (id SeriesID) Equals(other SeriesID) bool {
	return id.value == other.value
}

// IsZero checks if the SeriesID is the zero value
func (id SeriesID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id SeriesID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *SeriesID) UnmarshalJSON(data []byte) error {
	value, err := unquote(data)
	if err != nil {
		return err
	}
	id.value = value
	return nil
}

func unquote(data []byte) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", errors.New("ID must be a JSON string")
	}
	return string(data[1 : len(data)-1]), nil
}

// isValidUUID validates if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
