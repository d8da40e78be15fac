package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
)

// ListeDeDiffusionRepository implements listediffusion.Repository.
type ListeDeDiffusionRepository struct {
	base
}

func NewListeDeDiffusionRepository(collection *mongo.Collection, opts ...Option) *ListeDeDiffusionRepository {
	return &ListeDeDiffusionRepository{base: newBase(collection, "liste de diffusion", opts)}
}

func (r *ListeDeDiffusionRepository) Get(ctx context.Context, id string) (*listediffusion.ListeDeDiffusion, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToListe)
}

func (r *ListeDeDiffusionRepository) FindByConseiller(
	ctx context.Context,
	idConseiller string,
) ([]listediffusion.ListeDeDiffusion, error) {
	return findMany(ctx, &r.base, bson.M{"id_conseiller": idConseiller}, documentToListe)
}

func (r *ListeDeDiffusionRepository) Save(ctx context.Context, l *listediffusion.ListeDeDiffusion) error {
	beneficiaires := make([]beneficiaireDocument, 0, len(l.Beneficiaires))
	for _, b := range l.Beneficiaires {
		beneficiaires = append(beneficiaires, beneficiaireDocument{
			ID:                    b.ID,
			DateAjout:             b.DateAjout.UTC(),
			EstDansLePortefeuille: b.EstDansLePortefeuille,
		})
	}
	return r.upsert(ctx, bson.M{"_id": l.ID}, listeDocument{
		ID:             l.ID,
		IDConseiller:   l.IDConseiller,
		Titre:          l.Titre,
		DateDeCreation: l.DateDeCreation.UTC(),
		Beneficiaires:  beneficiaires,
	})
}

func (r *ListeDeDiffusionRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

type beneficiaireDocument struct {
	ID                    string    `bson:"id"`
	DateAjout             time.Time `bson:"date_ajout"`
	EstDansLePortefeuille bool      `bson:"est_dans_le_portefeuille"`
}

type listeDocument struct {
	ID             string                 `bson:"_id"`
	IDConseiller   string                 `bson:"id_conseiller"`
	Titre          string                 `bson:"titre"`
	DateDeCreation time.Time              `bson:"date_de_creation"`
	Beneficiaires  []beneficiaireDocument `bson:"beneficiaires"`
}

func documentToListe(doc *listeDocument) *listediffusion.ListeDeDiffusion {
	beneficiaires := make([]listediffusion.Beneficiaire, 0, len(doc.Beneficiaires))
	for _, b := range doc.Beneficiaires {
		beneficiaires = append(beneficiaires, listediffusion.Beneficiaire{
			ID:                    b.ID,
			DateAjout:             b.DateAjout,
			EstDansLePortefeuille: b.EstDansLePortefeuille,
		})
	}
	return &listediffusion.ListeDeDiffusion{
		ID:             doc.ID,
		IDConseiller:   doc.IDConseiller,
		Titre:          doc.Titre,
		DateDeCreation: doc.DateDeCreation,
		Beneficiaires:  beneficiaires,
	}
}
