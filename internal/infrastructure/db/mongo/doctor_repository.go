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
	"github.com/healthywell/telemedicine-api/internal/core/ports"
)

const collectionDoctors = "doctors"

type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(collectionDoctors)}
}

type doctorDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Specialization string             `bson:"specialization"`
	Experience     int                `bson:"experience"`
	Rating         float64            `bson:"rating"`
	Bio            string             `bson:"bio"`
	PhotoURL       string             `bson:"photo_url,omitempty"`
	IsAvailable    bool               `bson:"is_available"`
}

func (d *doctorDoc) toDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Specialization: d.Specialization,
		Experience:     d.Experience,
		Rating:         d.Rating,
		Bio:            d.Bio,
		PhotoURL:       d.PhotoURL,
		IsAvailable:    d.IsAvailable,
	}
}

// List returns the whole directory sorted by name.
func (r *DoctorRepository) List(ctx context.Context) ([]*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Doctor
	for cursor.Next(ctx) {
		var doc doctorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode doctor: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	return out, cursor.Err()
}

func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc doctorDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := doctorDoc{
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		Experience:     doctor.Experience,
		Rating:         doctor.Rating,
		Bio:            doctor.Bio,
		PhotoURL:       doctor.PhotoURL,
		IsAvailable:    doctor.IsAvailable,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

// Update applies the non-nil fields and returns the updated record.
func (r *DoctorRepository) Update(ctx context.Context, id string, update ports.DoctorUpdate) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Specialization != nil {
		set["specialization"] = *update.Specialization
	}
	if update.Experience != nil {
		set["experience"] = *update.Experience
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.PhotoURL != nil {
		set["photo_url"] = *update.PhotoURL
	}
	if update.IsAvailable != nil {
		set["is_available"] = *update.IsAvailable
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc doctorDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the profile and returns the deleted record.
func (r *DoctorRepository) Delete(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc doctorDoc
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("delete doctor: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the directory lookup indexes.
func (r *DoctorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "specialization", Value: 1}}},
		{Keys: bson.D{{Key: "is_available", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
