package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/lllypuk/passemploi/internal/domain/agence"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

// ConseillerRepository implements conseiller.Repository.
type ConseillerRepository struct {
	base
}

func NewConseillerRepository(collection *mongo.Collection, opts ...Option) *ConseillerRepository {
	return &ConseillerRepository{base: newBase(collection, "conseiller", opts)}
}

func (r *ConseillerRepository) Get(ctx context.Context, id string) (*conseiller.Conseiller, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id}, documentToConseiller)
}

// GetByIDAuthentification finds the conseiller behind an identity provider subject.
func (r *ConseillerRepository) GetByIDAuthentification(
	ctx context.Context,
	idAuthentification string,
) (*conseiller.Conseiller, error) {
	return findOne(ctx, &r.base, bson.M{"id_authentification": idAuthentification}, documentToConseiller)
}

func (r *ConseillerRepository) FindByAgence(ctx context.Context, idAgence string) ([]conseiller.Conseiller, error) {
	return findMany(ctx, &r.base, bson.M{"agence.id": idAgence}, documentToConseiller)
}

func (r *ConseillerRepository) Save(ctx context.Context, c *conseiller.Conseiller) error {
	return r.upsert(ctx, bson.M{"_id": c.ID}, conseillerToDocument(c))
}

type agenceDuConseillerDocument struct {
	ID  string `bson:"id"`
	Nom string `bson:"nom"`
}

type conseillerDocument struct {
	ID                 string                      `bson:"_id"`
	IDAuthentification *string                     `bson:"id_authentification,omitempty"`
	Prenom             string                      `bson:"prenom"`
	Nom                string                      `bson:"nom"`
	Email              string                      `bson:"email,omitempty"`
	Structure          string                      `bson:"structure"`
	Agence             *agenceDuConseillerDocument `bson:"agence,omitempty"`
	IDStructureMilo    *string                     `bson:"id_structure_milo,omitempty"`
}

func conseillerToDocument(c *conseiller.Conseiller) conseillerDocument {
	doc := conseillerDocument{
		ID:                 c.ID,
		IDAuthentification: StringPtr(c.IDAuthentification),
		Prenom:             c.Prenom,
		Nom:                c.Nom,
		Email:              c.Email,
		Structure:          string(c.Structure),
		IDStructureMilo:    StringPtr(c.IDStructureMilo),
	}
	if c.Agence != nil {
		doc.Agence = &agenceDuConseillerDocument{ID: c.Agence.ID, Nom: c.Agence.Nom}
	}
	return doc
}

func documentToConseiller(doc *conseillerDocument) *conseiller.Conseiller {
	c := &conseiller.Conseiller{
		ID:                 doc.ID,
		IDAuthentification: StringValue(doc.IDAuthentification),
		Prenom:             doc.Prenom,
		Nom:                doc.Nom,
		Email:              doc.Email,
		Structure:          core.Structure(doc.Structure),
		IDStructureMilo:    StringValue(doc.IDStructureMilo),
	}
	if doc.Agence != nil {
		c.Agence = &conseiller.Agence{ID: doc.Agence.ID, Nom: doc.Agence.Nom}
	}
	return c
}

// AgenceRepository implements agence.Repository.
type AgenceRepository struct {
	base
}

func NewAgenceRepository(collection *mongo.Collection, opts ...Option) *AgenceRepository {
	return &AgenceRepository{base: newBase(collection, "agence", opts)}
}

// Get finds an agence within structure. An agence of another structure is reported as absent.
func (r *AgenceRepository) Get(ctx context.Context, id string, structure core.Structure) (*agence.Agence, error) {
	return findOne(ctx, &r.base, bson.M{"_id": id, "structure": string(structure)}, documentToAgence)
}

func (r *AgenceRepository) Save(ctx context.Context, a *agence.Agence) error {
	return r.upsert(ctx, bson.M{"_id": a.ID}, agenceDocument{
		ID:        a.ID,
		Nom:       a.Nom,
		Structure: string(a.Structure),
	})
}

type agenceDocument struct {
	ID        string `bson:"_id"`
	Nom       string `bson:"nom"`
	Structure string `bson:"structure"`
}

func documentToAgence(doc *agenceDocument) *agence.Agence {
	return &agence.Agence{ID: doc.ID, Nom: doc.Nom, Structure: core.Structure(doc.Structure)}
}
