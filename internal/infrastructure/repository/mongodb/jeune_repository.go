package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

// JeuneRepository implements jeune.Repository.
type JeuneRepository struct {
	base
}

func NewJeuneRepository(collection *mongo.Collection, opts ...Option) *JeuneRepository {
	return &JeuneRepository{base: newBase(collection, "jeune", opts)}
}

func (r *JeuneRepository) Get(ctx context.Context, id string) (*jeune.Jeune, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToJeune)
}

func (r *JeuneRepository) FindAll(ctx context.Context, ids []string) ([]jeune.Jeune, error) {
	if len(ids) == 0 {
		return []jeune.Jeune{}, nil
	}
	return findMany(ctx, &r.base, bson.M{"_id": bson.M{"$in": ids}}, documentToJeune)
}

// FindAllJeunesByIdsAndConseiller returns the jeunes among ids currently followed by idConseiller.
func (r *JeuneRepository) FindAllJeunesByIdsAndConseiller(
	ctx context.Context,
	ids []string,
	idConseiller string,
) ([]jeune.Jeune, error) {
	if len(ids) == 0 {
		return []jeune.Jeune{}, nil
	}
	filter := bson.M{
		"_id":           bson.M{"$in": ids},
		"conseiller.id": idConseiller,
	}
	return findMany(ctx, &r.base, filter, documentToJeune)
}

func (r *JeuneRepository) FindByStructureMilo(ctx context.Context, idStructureMilo string) ([]jeune.Jeune, error) {
	return findMany(ctx, &r.base, bson.M{"id_structure_milo": idStructureMilo}, documentToJeune)
}

func (r *JeuneRepository) Save(ctx context.Context, j *jeune.Jeune) error {
	return r.upsert(ctx, bson.M{"_id": j.ID}, jeuneToDocument(j))
}

type conseillerDuJeuneDocument struct {
	ID       string `bson:"id"`
	Prenom   string `bson:"prenom"`
	Nom      string `bson:"nom"`
	Email    string `bson:"email,omitempty"`
	IDAgence string `bson:"id_agence,omitempty"`
}

type jeuneDocument struct {
	ID                  string                     `bson:"_id"`
	Prenom              string                     `bson:"prenom"`
	Nom                 string                     `bson:"nom"`
	Email               string                     `bson:"email,omitempty"`
	Structure           string                     `bson:"structure"`
	IsActivated         bool                       `bson:"is_activated"`
	Conseiller          *conseillerDuJeuneDocument `bson:"conseiller,omitempty"`
	IDConseillerInitial *string                    `bson:"id_conseiller_initial,omitempty"`
	PartageFavoris      bool                       `bson:"partage_favoris"`
	IDPartenaire        *string                    `bson:"id_partenaire,omitempty"`
	IDStructureMilo     *string                    `bson:"id_structure_milo,omitempty"`
	DateCreation        time.Time                  `bson:"date_creation"`
}

func jeuneToDocument(j *jeune.Jeune) jeuneDocument {
	doc := jeuneDocument{
		ID:              j.ID,
		Prenom:          j.Prenom,
		Nom:             j.Nom,
		Email:           j.Email,
		Structure:       string(j.Structure),
		IsActivated:     j.IsActivated,
		PartageFavoris:  j.Preferences.PartageFavoris,
		IDPartenaire:    StringPtr(j.IDPartenaire),
		IDStructureMilo: StringPtr(j.IDStructureMilo),
		DateCreation:    j.DateCreation.UTC(),
	}
	if j.Conseiller != nil {
		doc.Conseiller = &conseillerDuJeuneDocument{
			ID:       j.Conseiller.ID,
			Prenom:   j.Conseiller.Prenom,
			Nom:      j.Conseiller.Nom,
			Email:    j.Conseiller.Email,
			IDAgence: j.Conseiller.IDAgence,
		}
	}
	if j.ConseillerInitial != nil {
		doc.IDConseillerInitial = StringPtr(j.ConseillerInitial.ID)
	}
	return doc
}

func documentToJeune(doc *jeuneDocument) *jeune.Jeune {
	j := &jeune.Jeune{
		ID:              doc.ID,
		Prenom:          doc.Prenom,
		Nom:             doc.Nom,
		Email:           doc.Email,
		Structure:       core.Structure(doc.Structure),
		IsActivated:     doc.IsActivated,
		Preferences:     jeune.Preferences{PartageFavoris: doc.PartageFavoris},
		IDPartenaire:    StringValue(doc.IDPartenaire),
		IDStructureMilo: StringValue(doc.IDStructureMilo),
		DateCreation:    doc.DateCreation,
	}
	if doc.Conseiller != nil {
		j.Conseiller = &jeune.ConseillerDuJeune{
			ID:       doc.Conseiller.ID,
			Prenom:   doc.Conseiller.Prenom,
			Nom:      doc.Conseiller.Nom,
			Email:    doc.Conseiller.Email,
			IDAgence: doc.Conseiller.IDAgence,
		}
	}
	if doc.IDConseillerInitial != nil {
		j.ConseillerInitial = &jeune.ConseillerInitial{ID: *doc.IDConseillerInitial}
	}
	return j
}
