package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lllypuk/passemploi/internal/domain/recherche"
)

// RechercheRepository implements recherche.Repository.
type RechercheRepository struct {
	base
}

func NewRechercheRepository(collection *mongo.Collection, opts ...Option) *RechercheRepository {
	return &RechercheRepository{base: newBase(collection, "recherche", opts)}
}

func (r *RechercheRepository) Get(ctx context.Context, id string) (*recherche.Recherche, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToRecherche)
}

func (r *RechercheRepository) FindByJeune(ctx context.Context, idJeune string) ([]recherche.Recherche, error) {
	return findMany(ctx, &r.base, bson.M{"id_jeune": idJeune}, documentToRecherche)
}

// ExisteRecherche reports whether idRecherche belongs to idJeune.
func (r *RechercheRepository) ExisteRecherche(ctx context.Context, idJeune, idRecherche string) (bool, error) {
	return r.exists(ctx, bson.M{"_id": idRecherche, "id_jeune": idJeune})
}

func (r *RechercheRepository) Save(ctx context.Context, rech *recherche.Recherche) error {
	return r.upsert(ctx, bson.M{"_id": rech.ID}, rechercheDocument{
		ID:                    rech.ID,
		IDJeune:               rech.IDJeune,
		Titre:                 rech.Titre,
		Type:                  string(rech.Type),
		Metier:                rech.Metier,
		Localisation:          rech.Localisation,
		Criteres:              rech.Criteres,
		DateCreation:          rech.DateCreation.UTC(),
		DateDerniereRecherche: rech.DateDerniereRecherche.UTC(),
		Etat:                  string(rech.Etat),
	})
}

func (r *RechercheRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

type rechercheDocument struct {
	ID                    string         `bson:"_id"`
	IDJeune               string         `bson:"id_jeune"`
	Titre                 string         `bson:"titre"`
	Type                  string         `bson:"type"`
	Metier                string         `bson:"metier,omitempty"`
	Localisation          string         `bson:"localisation,omitempty"`
	Criteres              map[string]any `bson:"criteres,omitempty"`
	DateCreation          time.Time      `bson:"date_creation"`
	DateDerniereRecherche time.Time      `bson:"date_derniere_recherche"`
	Etat                  string         `bson:"etat"`
}

func documentToRecherche(doc *rechercheDocument) *recherche.Recherche {
	return &recherche.Recherche{
		ID:                    doc.ID,
		IDJeune:               doc.IDJeune,
		Titre:                 doc.Titre,
		Type:                  recherche.Type(doc.Type),
		Metier:                doc.Metier,
		Localisation:          doc.Localisation,
		Criteres:              doc.Criteres,
		DateCreation:          doc.DateCreation,
		DateDerniereRecherche: doc.DateDerniereRecherche,
		Etat:                  recherche.Etat(doc.Etat),
	}
}
