package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

const collectionMessages = "messages"

// MessageRepository is the append-only transcript store. Messages are never
// updated or deleted.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages)}
}

type messageDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ConsultationID string             `bson:"consultation_id"`
	Role           string             `bson:"role"`
	Content        string             `bson:"content"`
	Timestamp      time.Time          `bson:"timestamp"`
}

func (d *messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:             d.ID.Hex(),
		ConsultationID: d.ConsultationID,
		Role:           domain.MessageRole(d.Role),
		Content:        d.Content,
		Timestamp:      d.Timestamp.UTC(),
	}
}

func (r *MessageRepository) Append(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ConsultationID: m.ConsultationID,
		Role:           string(m.Role),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// ListByConsultation returns the full transcript, oldest first.
func (r *MessageRepository) ListByConsultation(ctx context.Context, consultationID string) ([]domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"consultation_id": consultationID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Message
	for cursor.Next(ctx) {
		var doc messageDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cursor.Err()
}

// EnsureIndexes creates the transcript read index.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "consultation_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
