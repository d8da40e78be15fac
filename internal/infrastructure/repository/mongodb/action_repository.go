package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/domain/action"
)

// ActionRepository implements action.Repository.
type ActionRepository struct {
	base
	jeunes *mongo.Collection
}

// NewActionRepository needs the jeunes collection to resolve the conseiller of an action.
func NewActionRepository(collection, jeunes *mongo.Collection, opts ...Option) *ActionRepository {
	return &ActionRepository{
		base:   newBase(collection, "action", opts),
		jeunes: jeunes,
	}
}

func (r *ActionRepository) Get(ctx context.Context, id string) (*action.Action, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToAction)
}

// GetConseillerEtJeune returns the jeune owning the action and his current conseiller.
// IDConseiller is empty when the jeune has none.
func (r *ActionRepository) GetConseillerEtJeune(ctx context.Context, id string) (*action.ConseillerEtJeune, error) {
	var owner struct {
		IDJeune string `bson:"id_jeune"`
	}
	projection := options.FindOne().SetProjection(bson.M{"id_jeune": 1})
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, projection).Decode(&owner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, HandleMongoError(err, r.resource)
	}

	var suivi struct {
		Conseiller *struct {
			ID string `bson:"id"`
		} `bson:"conseiller"`
	}
	projection = options.FindOne().SetProjection(bson.M{"conseiller.id": 1})
	err = r.jeunes.FindOne(ctx, bson.M{"_id": owner.IDJeune}, projection).Decode(&suivi)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, HandleMongoError(err, "jeune")
	}

	result := &action.ConseillerEtJeune{IDJeune: owner.IDJeune}
	if suivi.Conseiller != nil {
		result.IDConseiller = suivi.Conseiller.ID
	}
	return result, nil
}

func (r *ActionRepository) FindByJeune(ctx context.Context, idJeune string) ([]action.Action, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_echeance", Value: 1}})
	return findMany(ctx, &r.base, bson.M{"id_jeune": idJeune}, documentToAction, opts)
}

func (r *ActionRepository) Save(ctx context.Context, a *action.Action) error {
	return r.upsert(ctx, bson.M{"_id": a.ID}, actionToDocument(a))
}

func (r *ActionRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

type createurDocument struct {
	ID     string `bson:"id"`
	Type   string `bson:"type"`
	Nom    string `bson:"nom"`
	Prenom string `bson:"prenom"`
}

type qualificationDocument struct {
	Code        string `bson:"code"`
	Heures      int    `bson:"heures"`
	Commentaire string `bson:"commentaire,omitempty"`
}

type actionDocument struct {
	ID                        string                 `bson:"_id"`
	Statut                    string                 `bson:"statut"`
	Contenu                   string                 `bson:"contenu"`
	Description               string                 `bson:"description,omitempty"`
	DateCreation              time.Time              `bson:"date_creation"`
	DateDerniereActualisation time.Time              `bson:"date_derniere_actualisation"`
	IDJeune                   string                 `bson:"id_jeune"`
	Createur                  createurDocument       `bson:"createur"`
	DateEcheance              time.Time              `bson:"date_echeance"`
	DateFinReelle             *time.Time             `bson:"date_fin_reelle,omitempty"`
	Rappel                    bool                   `bson:"rappel"`
	CodeQualification         string                 `bson:"code_qualification,omitempty"`
	Qualification             *qualificationDocument `bson:"qualification,omitempty"`
}

func actionToDocument(a *action.Action) actionDocument {
	doc := actionDocument{
		ID:                        a.ID,
		Statut:                    string(a.Statut),
		Contenu:                   a.Contenu,
		Description:               a.Description,
		DateCreation:              a.DateCreation.UTC(),
		DateDerniereActualisation: a.DateDerniereActualisation.UTC(),
		IDJeune:                   a.IDJeune,
		Createur: createurDocument{
			ID:     a.Createur.ID,
			Type:   string(a.Createur.Type),
			Nom:    a.Createur.Nom,
			Prenom: a.Createur.Prenom,
		},
		DateEcheance:      a.DateEcheance.UTC(),
		DateFinReelle:     a.DateFinReelle,
		Rappel:            a.Rappel,
		CodeQualification: string(a.CodeQualification),
	}
	if a.Qualification != nil {
		doc.Qualification = &qualificationDocument{
			Code:        string(a.Qualification.Code),
			Heures:      a.Qualification.Heures,
			Commentaire: a.Qualification.CommentaireQualification,
		}
	}
	return doc
}

func documentToAction(doc *actionDocument) *action.Action {
	a := &action.Action{
		ID:                        doc.ID,
		Statut:                    action.Statut(doc.Statut),
		Contenu:                   doc.Contenu,
		Description:               doc.Description,
		DateCreation:              doc.DateCreation,
		DateDerniereActualisation: doc.DateDerniereActualisation,
		IDJeune:                   doc.IDJeune,
		Createur: action.Createur{
			ID:     doc.Createur.ID,
			Type:   action.TypeCreateur(doc.Createur.Type),
			Nom:    doc.Createur.Nom,
			Prenom: doc.Createur.Prenom,
		},
		DateEcheance:      doc.DateEcheance,
		DateFinReelle:     doc.DateFinReelle,
		Rappel:            doc.Rappel,
		CodeQualification: action.CodeQualification(doc.CodeQualification),
	}
	if doc.Qualification != nil {
		a.Qualification = &action.Qualification{
			Code:                     action.CodeQualification(doc.Qualification.Code),
			Heures:                   doc.Qualification.Heures,
			CommentaireQualification: doc.Qualification.Commentaire,
		}
	}
	return a
}
