package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
)

// EvenementRepository appends engagement evenements. Documents are never updated.
type EvenementRepository struct {
	base
}

func NewEvenementRepository(collection *mongo.Collection, opts ...Option) *EvenementRepository {
	return &EvenementRepository{base: newBase(collection, "evenement", opts)}
}

func (r *EvenementRepository) Save(ctx context.Context, e evenement.Evenement) error {
	_, err := r.collection.InsertOne(ctx, evenementDocument{
		ID:        bson.NewObjectID(),
		Code:      string(e.Code),
		Emetteur:  emetteurDocument{ID: e.Emetteur.ID, Type: string(e.Emetteur.Type), Structure: string(e.Emetteur.Structure)},
		DateEvent: e.Date.UTC(),
	})
	return HandleMongoError(err, r.resource)
}

// FindByEmetteur lists what a user emitted, newest first.
func (r *EvenementRepository) FindByEmetteur(ctx context.Context, idEmetteur string) ([]evenement.Evenement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_evenement", Value: -1}})
	return findMany(ctx, &r.base, bson.M{"emetteur.id": idEmetteur}, documentToEvenement, opts)
}

type emetteurDocument struct {
	ID        string `bson:"id"`
	Type      string `bson:"type"`
	Structure string `bson:"structure"`
}

type evenementDocument struct {
	ID        bson.ObjectID    `bson:"_id"`
	Code      string           `bson:"code"`
	Emetteur  emetteurDocument `bson:"emetteur"`
	DateEvent time.Time        `bson:"date_evenement"`
}

func documentToEvenement(doc *evenementDocument) *evenement.Evenement {
	return &evenement.Evenement{
		Code: evenement.Code(doc.Code),
		Emetteur: evenement.Emetteur{
			ID:        doc.Emetteur.ID,
			Type:      authentification.Type(doc.Emetteur.Type),
			Structure: core.Structure(doc.Emetteur.Structure),
		},
		Date: doc.DateEvent,
	}
}
