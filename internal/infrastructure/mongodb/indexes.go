// Package mongodb provides MongoDB infrastructure components including index management.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names as constants for consistency.
const (
	CollectionJeunes               = "jeunes"
	CollectionConseillers          = "conseillers"
	CollectionAgences              = "agences"
	CollectionActions              = "actions"
	CollectionFavoris              = "favoris"
	CollectionRecherches           = "recherches"
	CollectionRendezVous           = "rendez_vous"
	CollectionListesDeDiffusion    = "listes_de_diffusion"
	CollectionFichiers             = "fichiers"
	CollectionEvenementsEngagement = "evenements_engagement"
)

// IndexDefinition describes a MongoDB index to be created.
type IndexDefinition struct {
	Collection string
	Name       string
	Keys       bson.D
	Unique     bool
	Sparse     bool
}

func (d IndexDefinition) model() mongo.IndexModel {
	opts := options.Index().SetName(d.Name)
	if d.Unique {
		opts.SetUnique(true)
	}
	if d.Sparse {
		opts.SetSparse(true)
	}
	return mongo.IndexModel{Keys: d.Keys, Options: opts}
}

// CreateAllIndexes creates all necessary indexes for the application.
// This function is idempotent - calling it multiple times is safe.
func CreateAllIndexes(ctx context.Context, db *mongo.Database) error {
	return createIndexes(ctx, db, GetAllIndexDefinitions())
}

func createIndexes(ctx context.Context, db *mongo.Database, indexes []IndexDefinition) error {
	for _, idx := range indexes {
		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.model()); err != nil {
			return fmt.Errorf("failed to create index %s on collection %s: %w", idx.Name, idx.Collection, err)
		}
	}
	return nil
}

// GetAllIndexDefinitions returns all index definitions for all collections.
func GetAllIndexDefinitions() []IndexDefinition {
	var indexes []IndexDefinition

	indexes = append(indexes, GetJeuneIndexes()...)
	indexes = append(indexes, GetConseillerIndexes()...)
	indexes = append(indexes, GetAgenceIndexes()...)
	indexes = append(indexes, GetActionIndexes()...)
	indexes = append(indexes, GetFavoriIndexes()...)
	indexes = append(indexes, GetRechercheIndexes()...)
	indexes = append(indexes, GetRendezVousIndexes()...)
	indexes = append(indexes, GetListeDeDiffusionIndexes()...)
	indexes = append(indexes, GetFichierIndexes()...)
	indexes = append(indexes, GetEvenementIndexes()...)

	return indexes
}

func GetJeuneIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Portfolio of a conseiller
			Collection: CollectionJeunes,
			Name:       "idx_jeunes_conseiller",
			Keys:       bson.D{{Key: "conseiller.id", Value: 1}},
		},
		{
			Collection: CollectionJeunes,
			Name:       "idx_jeunes_structure_milo",
			Keys:       bson.D{{Key: "id_structure_milo", Value: 1}},
			Sparse:     true,
		},
	}
}

func GetConseillerIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Login lookup
			Collection: CollectionConseillers,
			Name:       "idx_conseillers_authentification_unique",
			Keys:       bson.D{{Key: "id_authentification", Value: 1}},
			Unique:     true,
			Sparse:     true,
		},
		{
			Collection: CollectionConseillers,
			Name:       "idx_conseillers_agence",
			Keys:       bson.D{{Key: "agence.id", Value: 1}},
			Sparse:     true,
		},
	}
}

func GetAgenceIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionAgences,
			Name:       "idx_agences_structure",
			Keys:       bson.D{{Key: "structure", Value: 1}},
		},
	}
}

func GetActionIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Actions of a jeune ordered by due date
			Collection: CollectionActions,
			Name:       "idx_actions_jeune_echeance",
			Keys:       bson.D{{Key: "id_jeune", Value: 1}, {Key: "date_echeance", Value: 1}},
		},
	}
}

func GetFavoriIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// One bookmark per offer and jeune
			Collection: CollectionFavoris,
			Name:       "idx_favoris_beneficiaire_offre_unique",
			Keys:       bson.D{{Key: "id_beneficiaire", Value: 1}, {Key: "id_offre", Value: 1}},
			Unique:     true,
		},
		{
			Collection: CollectionFavoris,
			Name:       "idx_favoris_beneficiaire_time",
			Keys:       bson.D{{Key: "id_beneficiaire", Value: 1}, {Key: "date_creation", Value: -1}},
		},
	}
}

func GetRechercheIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionRecherches,
			Name:       "idx_recherches_jeune",
			Keys:       bson.D{{Key: "id_jeune", Value: 1}},
		},
	}
}

func GetRendezVousIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			// Agenda of a jeune
			Collection: CollectionRendezVous,
			Name:       "idx_rendez_vous_jeunes_date",
			Keys:       bson.D{{Key: "jeunes.id", Value: 1}, {Key: "date", Value: 1}},
		},
		{
			// Animations collectives of an agence
			Collection: CollectionRendezVous,
			Name:       "idx_rendez_vous_agence_date",
			Keys:       bson.D{{Key: "id_agence", Value: 1}, {Key: "date", Value: 1}},
			Sparse:     true,
		},
	}
}

func GetListeDeDiffusionIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionListesDeDiffusion,
			Name:       "idx_listes_de_diffusion_conseiller",
			Keys:       bson.D{{Key: "id_conseiller", Value: 1}},
		},
	}
}

func GetFichierIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionFichiers,
			Name:       "idx_fichiers_jeunes",
			Keys:       bson.D{{Key: "ids_jeunes", Value: 1}},
		},
		{
			Collection: CollectionFichiers,
			Name:       "idx_fichiers_createur",
			Keys:       bson.D{{Key: "id_createur", Value: 1}},
		},
	}
}

// GetEvenementIndexes serves the engagement analytics: per code and per emitter over time.
func GetEvenementIndexes() []IndexDefinition {
	return []IndexDefinition{
		{
			Collection: CollectionEvenementsEngagement,
			Name:       "idx_evenements_code_time",
			Keys:       bson.D{{Key: "code", Value: 1}, {Key: "date_evenement", Value: -1}},
		},
		{
			Collection: CollectionEvenementsEngagement,
			Name:       "idx_evenements_emetteur_time",
			Keys:       bson.D{{Key: "emetteur.id", Value: 1}, {Key: "date_evenement", Value: -1}},
		},
	}
}

// EnsureIndexes is an alias for CreateAllIndexes for semantic clarity.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return CreateAllIndexes(ctx, db)
}

// CreateCollectionIndexes creates indexes for a specific collection only.
func CreateCollectionIndexes(ctx context.Context, db *mongo.Database, collectionName string) error {
	var indexes []IndexDefinition
	for _, idx := range GetAllIndexDefinitions() {
		if idx.Collection == collectionName {
			indexes = append(indexes, idx)
		}
	}
	if len(indexes) == 0 {
		return fmt.Errorf("unknown collection: %s", collectionName)
	}
	return createIndexes(ctx, db, indexes)
}
