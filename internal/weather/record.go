package weather

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// WeatherRecord is the normalized, validated weather observation for one city
// at one point in time. It is constructed once by the normalizer and treated
// as immutable from then on: the snapshot store and the loader receive copies,
// never mutate.
type WeatherRecord struct {
	City        string          `json:"city" bson:"city" validate:"required"`
	Timestamp   time.Time       `json:"timestamp" bson:"timestamp" validate:"required"`
	Temperature float64         `json:"temperature" bson:"temperature"`
	Humidity    float64         `json:"humidity" bson:"humidity" validate:"gte=0,lte=100"`
	Pressure    int             `json:"pressure" bson:"pressure" validate:"gt=0"`
	Description string          `json:"description" bson:"description" validate:"required"`
	RawSource   json.RawMessage `json:"raw_source,omitempty" bson:"raw_source,omitempty"`
}

// Validate checks the struct-level constraints and reports the first failing
// field. Used after normalization and again after the snapshot read-back.
func (r WeatherRecord) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return FieldError(strings.ToLower(verrs[0].Field()))
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

// Equal compares two records structurally. Timestamps are compared with
// time.Time.Equal because a JSON round trip drops the monotonic clock
// reading; raw payloads are compared after compaction because serializers
// are free to re-indent embedded JSON.
func Equal(a, b WeatherRecord) bool {
	return a.City == b.City &&
		a.Timestamp.Equal(b.Timestamp) &&
		a.Temperature == b.Temperature &&
		a.Humidity == b.Humidity &&
		a.Pressure == b.Pressure &&
		a.Description == b.Description &&
		rawEqual(a.RawSource, b.RawSource)
}

func rawEqual(a, b json.RawMessage) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == 0 && len(b) == 0
	}
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Compact(&cb, b); err != nil {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
