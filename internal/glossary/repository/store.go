package repository

import (
	"context"
	"errors"

	"github.com/glosario-lsc/glosario/internal/glossary"
)

var (
	ErrNotFound = errors.New("word not found")
)

// NewSign holds the fields of a sign record to insert.
type NewSign struct {
	WordID    string
	VideoURL  string
	Note      *string
	Latitude  *float64
	Longitude *float64
	City      *string
	Test      bool
}

// Store is the persistence collaborator for words and signs. Words are never
// updated in place; new contributions only append signs.
type Store interface {
	// ListWords returns every word with its signs attached.
	ListWords(ctx context.Context) ([]*glossary.Word, error)
	// CreateWord inserts a word record and returns its id. Name uniqueness is
	// not enforced here.
	CreateWord(ctx context.Context, name string) (string, error)
	CreateSign(ctx context.Context, s NewSign) (*glossary.Sign, error)
	// DeleteAllWords removes every word and, transitively, every sign.
	DeleteAllWords(ctx context.Context) error
}

func toSign(id string, s NewSign) glossary.Sign {
	sign := glossary.Sign{
		ID:       id,
		WordID:   s.WordID,
		VideoURL: s.VideoURL,
		Note:     s.Note,
		Test:     s.Test,
	}
	if s.Latitude != nil && s.Longitude != nil {
		sign.Location = &glossary.Location{Latitude: *s.Latitude, Longitude: *s.Longitude, City: s.City}
	}
	return sign
}
