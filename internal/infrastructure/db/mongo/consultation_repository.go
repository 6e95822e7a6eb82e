package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthywell/telemedicine-api/internal/core/domain"
)

const collectionConsultations = "consultations"

type ConsultationRepository struct {
	col *mongo.Collection
}

func NewConsultationRepository(db *mongo.Database) *ConsultationRepository {
	return &ConsultationRepository{col: db.Collection(collectionConsultations)}
}

type consultationDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	DoctorID  string             `bson:"doctor_id"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	StartedAt *time.Time         `bson:"started_at,omitempty"`
	EndedAt   *time.Time         `bson:"ended_at,omitempty"`
	Notes     string             `bson:"notes,omitempty"`
}

func (d *consultationDoc) toDomain() *domain.Consultation {
	c := &domain.Consultation{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		DoctorID:  d.DoctorID,
		Status:    domain.ConsultationStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		Notes:     d.Notes,
	}
	if d.StartedAt != nil {
		t := d.StartedAt.UTC()
		c.StartedAt = &t
	}
	if d.EndedAt != nil {
		t := d.EndedAt.UTC()
		c.EndedAt = &t
	}
	return c
}

func (r *ConsultationRepository) Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := consultationDoc{
		UserID:    c.UserID,
		DoctorID:  c.DoctorID,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		Notes:     c.Notes,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert consultation: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id string) (*domain.Consultation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrConsultationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc consultationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("find consultation: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByUser returns the user's consultations, newest first.
func (r *ConsultationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Consultation
	for cursor.Next(ctx) {
		var doc consultationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode consultation: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

// SetStatus writes the new status together with the matching lifecycle
// timestamp: started_at for active, ended_at for completed.
func (r *ConsultationRepository) SetStatus(ctx context.Context, id string, status domain.ConsultationStatus, at time.Time) (*domain.Consultation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrConsultationNotFound
	}

	set := bson.M{"status": string(status)}
	switch status {
	case domain.StatusActive:
		set["started_at"] = at
	case domain.StatusCompleted:
		set["ended_at"] = at
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc consultationDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("set consultation status: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ConsultationRepository) UpdateNotes(ctx context.Context, id, notes string) (*domain.Consultation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrConsultationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc consultationDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"notes": notes}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("update consultation notes: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the history listing index.
func (r *ConsultationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
