package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/domain/favori"
)

// FavoriRepository implements favori.Repository. A favori is keyed by (id_beneficiaire, id_offre).
type FavoriRepository struct {
	base
}

func NewFavoriRepository(collection *mongo.Collection, opts ...Option) *FavoriRepository {
	return &FavoriRepository{base: newBase(collection, "favori", opts)}
}

func favoriFilter(idBeneficiaire, idOffre string) bson.M {
	return bson.M{"id_beneficiaire": idBeneficiaire, "id_offre": idOffre}
}

func (r *FavoriRepository) Get(ctx context.Context, idBeneficiaire, idOffre string) (*favori.Favori, error) {
	return findOne(ctx, &r.base, favoriFilter(idBeneficiaire, idOffre), documentToFavori)
}

// FindByBeneficiaire returns the favoris of a jeune, newest first.
func (r *FavoriRepository) FindByBeneficiaire(ctx context.Context, idBeneficiaire string) ([]favori.Favori, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_creation", Value: -1}})
	return findMany(ctx, &r.base, bson.M{"id_beneficiaire": idBeneficiaire}, documentToFavori, opts)
}

func (r *FavoriRepository) Save(ctx context.Context, f *favori.Favori) error {
	return r.upsert(ctx, favoriFilter(f.IDBeneficiaire, f.IDOffre), favoriDocument{
		IDBeneficiaire:  f.IDBeneficiaire,
		IDOffre:         f.IDOffre,
		Type:            string(f.Type),
		Titre:           f.Titre,
		Organisation:    f.Organisation,
		Localisation:    f.Localisation,
		DateCreation:    f.DateCreation.UTC(),
		DateCandidature: f.DateCandidature,
	})
}

func (r *FavoriRepository) Delete(ctx context.Context, idBeneficiaire, idOffre string) error {
	return r.deleteOne(ctx, favoriFilter(idBeneficiaire, idOffre))
}

type favoriDocument struct {
	IDBeneficiaire  string     `bson:"id_beneficiaire"`
	IDOffre         string     `bson:"id_offre"`
	Type            string     `bson:"type"`
	Titre           string     `bson:"titre"`
	Organisation    string     `bson:"organisation,omitempty"`
	Localisation    string     `bson:"localisation,omitempty"`
	DateCreation    time.Time  `bson:"date_creation"`
	DateCandidature *time.Time `bson:"date_candidature,omitempty"`
}

func documentToFavori(doc *favoriDocument) *favori.Favori {
	return &favori.Favori{
		IDBeneficiaire:  doc.IDBeneficiaire,
		IDOffre:         doc.IDOffre,
		Type:            favori.TypeOffre(doc.Type),
		Titre:           doc.Titre,
		Organisation:    doc.Organisation,
		Localisation:    doc.Localisation,
		DateCreation:    doc.DateCreation,
		DateCandidature: doc.DateCandidature,
	}
}
