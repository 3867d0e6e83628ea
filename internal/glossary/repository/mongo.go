package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/glosario-lsc/glosario/internal/glossary"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore keeps words and signs in two collections. Signs reference their
// word through "wordId"; DeleteAllWords clears both.
//
// The index on words.name is intentionally not unique: two concurrent saves of
// the same new name can both create a word.
type MongoStore struct {
	words *mongo.Collection
	signs *mongo.Collection
	now   func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	s := &MongoStore{words: db.Collection("words"), signs: db.Collection("signs"), now: time.Now}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.words.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}})
	s.signs.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "wordId", Value: 1}}})
	return s
}

func (m *MongoStore) ListWords(ctx context.Context) ([]*glossary.Word, error) {
	cur, err := m.words.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find words: %w", err)
	}
	var words []*glossary.Word
	if err := cur.All(ctx, &words); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}

	scur, err := m.signs.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find signs: %w", err)
	}
	var signs []glossary.Sign
	if err := scur.All(ctx, &signs); err != nil {
		return nil, fmt.Errorf("decode signs: %w", err)
	}

	byID := make(map[string]*glossary.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	for _, s := range signs {
		// orphaned signs (word deleted mid-clear) are skipped
		if w, ok := byID[s.WordID]; ok {
			w.Signs = append(w.Signs, s)
		}
	}
	if words == nil {
		words = []*glossary.Word{}
	}
	return words, nil
}

func (m *MongoStore) CreateWord(ctx context.Context, name string) (string, error) {
	now := m.now().UTC()
	w := glossary.Word{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if _, err := m.words.InsertOne(ctx, w); err != nil {
		return "", fmt.Errorf("insert word: %w", err)
	}
	return w.ID, nil
}

func (m *MongoStore) CreateSign(ctx context.Context, s NewSign) (*glossary.Sign, error) {
	sign := toSign(uuid.NewString(), s)
	sign.CreatedAt = m.now().UTC()
	if _, err := m.signs.InsertOne(ctx, sign); err != nil {
		return nil, fmt.Errorf("insert sign: %w", err)
	}
	return &sign, nil
}

func (m *MongoStore) DeleteAllWords(ctx context.Context) error {
	if _, err := m.signs.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete signs: %w", err)
	}
	if _, err := m.words.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete words: %w", err)
	}
	return nil
}
