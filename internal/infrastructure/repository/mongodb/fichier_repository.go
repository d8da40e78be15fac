package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
)

// FichierRepository implements fichier.Repository. Removal is a soft delete.
type FichierRepository struct {
	base
}

func NewFichierRepository(collection *mongo.Collection, opts ...Option) *FichierRepository {
	return &FichierRepository{base: newBase(collection, "fichier", opts)}
}

// Get ignores soft-deleted files.
func (r *FichierRepository) Get(ctx context.Context, id string) (*fichier.Metadonnees, error) {
	filter := bson.M{"_id": id, "date_suppression": bson.M{"$exists": false}}
	return findOne(ctx, &r.base, filter, documentToFichier)
}

func (r *FichierRepository) Save(ctx context.Context, m *fichier.Metadonnees) error {
	return r.upsert(ctx, bson.M{"_id": m.ID}, fichierDocument{
		ID:                   m.ID,
		IDsJeunes:            m.IDsJeunes,
		IDsListesDeDiffusion: m.IDsListesDeDiffusion,
		IDCreateur:           m.IDCreateur,
		TypeCreateur:         string(m.TypeCreateur),
		Nom:                  m.Nom,
		MimeType:             m.MimeType,
		Taille:               m.Taille,
		DateCreation:         m.DateCreation.UTC(),
		DateSuppression:      m.DateSuppression,
	})
}

func (r *FichierRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"date_suppression": at.UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return HandleMongoError(err, r.resource)
}

type fichierDocument struct {
	ID                   string     `bson:"_id"`
	IDsJeunes            []string   `bson:"ids_jeunes"`
	IDsListesDeDiffusion []string   `bson:"ids_listes_de_diffusion,omitempty"`
	IDCreateur           string     `bson:"id_createur"`
	TypeCreateur         string     `bson:"type_createur"`
	Nom                  string     `bson:"nom"`
	MimeType             string     `bson:"mime_type"`
	Taille               int64      `bson:"taille"`
	DateCreation         time.Time  `bson:"date_creation"`
	DateSuppression      *time.Time `bson:"date_suppression,omitempty"`
}

func documentToFichier(doc *fichierDocument) *fichier.Metadonnees {
	return &fichier.Metadonnees{
		ID:                   doc.ID,
		IDsJeunes:            doc.IDsJeunes,
		IDsListesDeDiffusion: doc.IDsListesDeDiffusion,
		IDCreateur:           doc.IDCreateur,
		TypeCreateur:         authentification.Type(doc.TypeCreateur),
		Nom:                  doc.Nom,
		MimeType:             doc.MimeType,
		Taille:               doc.Taille,
		DateCreation:         doc.DateCreation,
		DateSuppression:      doc.DateSuppression,
	}
}
