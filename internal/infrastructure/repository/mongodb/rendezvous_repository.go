package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// RendezVousRepository implements rendezvous.Repository.
// Participants are embedded with a snapshot of their conseiller.
type RendezVousRepository struct {
	base
}

func NewRendezVousRepository(collection *mongo.Collection, opts ...Option) *RendezVousRepository {
	return &RendezVousRepository{base: newBase(collection, "rendez-vous", opts)}
}

func (r *RendezVousRepository) Get(ctx context.Context, id string) (*rendezvous.RendezVous, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToRendezVous)
}

func (r *RendezVousRepository) FindByJeune(ctx context.Context, idJeune string) ([]rendezvous.RendezVous, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return findMany(ctx, &r.base, bson.M{"jeunes.id": idJeune}, documentToRendezVous, opts)
}

// FindAnimationsCollectivesByAgence returns the ateliers and informations
// collectives held by idAgence, by date.
func (r *RendezVousRepository) FindAnimationsCollectivesByAgence(
	ctx context.Context,
	idAgence string,
) ([]rendezvous.RendezVous, error) {
	filter := bson.M{
		"id_agence": idAgence,
		"type": bson.M{"$in": bson.A{
			string(rendezvous.TypeAtelier),
			string(rendezvous.TypeInformationCollective),
		}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return findMany(ctx, &r.base, filter, documentToRendezVous, opts)
}

func (r *RendezVousRepository) Save(ctx context.Context, rdv *rendezvous.RendezVous) error {
	return r.upsert(ctx, bson.M{"_id": rdv.ID}, rendezVousToDocument(rdv))
}

func (r *RendezVousRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

type jeuneDuRendezVousDocument struct {
	ID         string                     `bson:"id"`
	Prenom     string                     `bson:"prenom"`
	Nom        string                     `bson:"nom"`
	Email      string                     `bson:"email,omitempty"`
	Conseiller *conseillerDuJeuneDocument `bson:"conseiller,omitempty"`
}

type rendezVousDocument struct {
	ID                 string                      `bson:"_id"`
	Titre              string                      `bson:"titre"`
	SousTitre          string                      `bson:"sous_titre"`
	Commentaire        string                      `bson:"commentaire,omitempty"`
	Modalite           string                      `bson:"modalite,omitempty"`
	Date               time.Time                   `bson:"date"`
	Duree              int                         `bson:"duree"`
	Jeunes             []jeuneDuRendezVousDocument `bson:"jeunes"`
	Type               string                      `bson:"type"`
	Precision          string                      `bson:"precision,omitempty"`
	Adresse            string                      `bson:"adresse,omitempty"`
	Organisme          string                      `bson:"organisme,omitempty"`
	PresenceConseiller bool                        `bson:"presence_conseiller"`
	Invitation         bool                        `bson:"invitation"`
	Createur           createurDocument            `bson:"createur"`
	IDAgence           *string                     `bson:"id_agence,omitempty"`
	DateCloture        *time.Time                  `bson:"date_cloture,omitempty"`
}

func rendezVousToDocument(rdv *rendezvous.RendezVous) rendezVousDocument {
	jeunes := make([]jeuneDuRendezVousDocument, 0, len(rdv.Jeunes))
	for _, j := range rdv.Jeunes {
		doc := jeuneDuRendezVousDocument{ID: j.ID, Prenom: j.Prenom, Nom: j.Nom, Email: j.Email}
		if j.Conseiller != nil {
			doc.Conseiller = &conseillerDuJeuneDocument{
				ID:       j.Conseiller.ID,
				Prenom:   j.Conseiller.Prenom,
				Nom:      j.Conseiller.Nom,
				Email:    j.Conseiller.Email,
				IDAgence: j.Conseiller.IDAgence,
			}
		}
		jeunes = append(jeunes, doc)
	}

	return rendezVousDocument{
		ID:                 rdv.ID,
		Titre:              rdv.Titre,
		SousTitre:          rdv.SousTitre,
		Commentaire:        rdv.Commentaire,
		Modalite:           rdv.Modalite,
		Date:               rdv.Date.UTC(),
		Duree:              rdv.Duree,
		Jeunes:             jeunes,
		Type:               string(rdv.Type),
		Precision:          rdv.Precision,
		Adresse:            rdv.Adresse,
		Organisme:          rdv.Organisme,
		PresenceConseiller: rdv.PresenceConseiller,
		Invitation:         rdv.Invitation,
		Createur: createurDocument{
			ID:     rdv.Createur.ID,
			Type:   "conseiller",
			Nom:    rdv.Createur.Nom,
			Prenom: rdv.Createur.Prenom,
		},
		IDAgence:    StringPtr(rdv.IDAgence),
		DateCloture: rdv.DateCloture,
	}
}

func documentToRendezVous(doc *rendezVousDocument) *rendezvous.RendezVous {
	jeunes := make([]rendezvous.JeuneDuRendezVous, 0, len(doc.Jeunes))
	for _, j := range doc.Jeunes {
		participant := rendezvous.JeuneDuRendezVous{ID: j.ID, Prenom: j.Prenom, Nom: j.Nom, Email: j.Email}
		if j.Conseiller != nil {
			participant.Conseiller = &jeune.ConseillerDuJeune{
				ID:       j.Conseiller.ID,
				Prenom:   j.Conseiller.Prenom,
				Nom:      j.Conseiller.Nom,
				Email:    j.Conseiller.Email,
				IDAgence: j.Conseiller.IDAgence,
			}
		}
		jeunes = append(jeunes, participant)
	}

	return &rendezvous.RendezVous{
		ID:                 doc.ID,
		Titre:              doc.Titre,
		SousTitre:          doc.SousTitre,
		Commentaire:        doc.Commentaire,
		Modalite:           doc.Modalite,
		Date:               doc.Date,
		Duree:              doc.Duree,
		Jeunes:             jeunes,
		Type:               rendezvous.CodeType(doc.Type),
		Precision:          doc.Precision,
		Adresse:            doc.Adresse,
		Organisme:          doc.Organisme,
		PresenceConseiller: doc.PresenceConseiller,
		Invitation:         doc.Invitation,
		Createur: rendezvous.Createur{
			ID:     doc.Createur.ID,
			Nom:    doc.Createur.Nom,
			Prenom: doc.Createur.Prenom,
		},
		IDAgence:    StringValue(doc.IDAgence),
		DateCloture: doc.DateCloture,
	}
}
