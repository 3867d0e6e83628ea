package glossary

import (
	"math"
	"time"
)

// Word is a named glossary entry. Name is stored case-folded; use DisplayName
// for presentation.
type Word struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
	Signs     []Sign    `json:"signs" bson:"-"`
}

// Sign is one recorded demonstration of a Word.
type Sign struct {
	ID        string    `json:"id" bson:"_id"`
	WordID    string    `json:"wordId" bson:"wordId"`
	VideoURL  string    `json:"videoUrl" bson:"videoUrl"`
	Note      *string   `json:"note,omitempty" bson:"note,omitempty"`
	Location  *Location `json:"location,omitempty" bson:"location,omitempty"`
	Test      bool      `json:"test" bson:"test"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Location is where a sign was recorded. City is set only when the
// coordinates resolve to a known city.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	City      *string `json:"city,omitempty" bson:"city,omitempty"`
}

// Valid reports whether both coordinates are finite and in range.
func (l Location) Valid() bool {
	return ValidLatitude(l.Latitude) && ValidLongitude(l.Longitude)
}

// ValidLatitude rejects NaN, infinities and values outside [-90, 90].
func ValidLatitude(v float64) bool {
	return !math.IsNaN(v) && v >= -90 && v <= 90
}

// ValidLongitude rejects NaN, infinities and values outside [-180, 180].
func ValidLongitude(v float64) bool {
	return !math.IsNaN(v) && v >= -180 && v <= 180
}

// Blob is a captured media payload.
type Blob struct {
	Data        []byte
	ContentType string
}

// Size returns the payload length in bytes.
func (b Blob) Size() int64 { return int64(len(b.Data)) }
