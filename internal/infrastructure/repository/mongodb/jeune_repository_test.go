package mongodb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/agence"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	infra "github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
	"github.com/lllypuk/passemploi/internal/infrastructure/repository/mongodb"
	"github.com/lllypuk/passemploi/tests/testutil"
)

var dateCreation = time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC)

func unJeune(id, idConseiller string) jeune.Jeune {
	return jeune.Jeune{
		ID:          id,
		Prenom:      "Kenji",
		Nom:         "Girac",
		Email:       id + "@example.com",
		Structure:   core.StructureMilo,
		IsActivated: true,
		Conseiller: &jeune.ConseillerDuJeune{
			ID:       idConseiller,
			Prenom:   "Nils",
			Nom:      "Tavernier",
			IDAgence: "AG1",
		},
		Preferences:     jeune.Preferences{PartageFavoris: true},
		IDStructureMilo: "SM1",
		DateCreation:    dateCreation,
	}
}

func TestJeuneRepository_SaveAndGet(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewJeuneRepository(db.Collection(infra.CollectionJeunes))
	ctx := context.Background()

	j := unJeune("J1", "C1")
	j.ConseillerInitial = &jeune.ConseillerInitial{ID: "C0"}
	require.NoError(t, repo.Save(ctx, &j))

	found, err := repo.Get(ctx, "J1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, j, *found)
}

func TestJeuneRepository_Get_Absent(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewJeuneRepository(db.Collection(infra.CollectionJeunes))

	found, err := repo.Get(context.Background(), "inconnu")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJeuneRepository_Save_ClearsConseiller(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewJeuneRepository(db.Collection(infra.CollectionJeunes))
	ctx := context.Background()

	j := unJeune("J1", "C1")
	require.NoError(t, repo.Save(ctx, &j))
	j.Conseiller = nil
	require.NoError(t, repo.Save(ctx, &j))

	found, err := repo.Get(ctx, "J1")
	require.NoError(t, err)
	assert.Nil(t, found.Conseiller)
}

func TestJeuneRepository_Finders(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewJeuneRepository(db.Collection(infra.CollectionJeunes))
	ctx := context.Background()

	for _, j := range []jeune.Jeune{unJeune("J1", "C1"), unJeune("J2", "C1"), unJeune("J3", "C2")} {
		require.NoError(t, repo.Save(ctx, &j))
	}

	t.Run("FindAll", func(t *testing.T) {
		jeunes, err := repo.FindAll(ctx, []string{"J1", "J3", "J9"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"J1", "J3"}, ids(jeunes))
	})

	t.Run("FindAll without ids", func(t *testing.T) {
		jeunes, err := repo.FindAll(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, jeunes)
	})

	t.Run("FindAllJeunesByIdsAndConseiller", func(t *testing.T) {
		jeunes, err := repo.FindAllJeunesByIdsAndConseiller(ctx, []string{"J1", "J2", "J3"}, "C1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"J1", "J2"}, ids(jeunes))
	})

	t.Run("FindByStructureMilo", func(t *testing.T) {
		jeunes, err := repo.FindByStructureMilo(ctx, "SM1")
		require.NoError(t, err)
		assert.Len(t, jeunes, 3)

		jeunes, err = repo.FindByStructureMilo(ctx, "SM2")
		require.NoError(t, err)
		assert.Empty(t, jeunes)
	})
}

func TestConseillerRepository(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewConseillerRepository(db.Collection(infra.CollectionConseillers))
	ctx := context.Background()

	c1 := conseiller.Conseiller{
		ID:                 "C1",
		IDAuthentification: "auth-c1",
		Prenom:             "Nils",
		Nom:                "Tavernier",
		Structure:          core.StructureMilo,
		Agence:             &conseiller.Agence{ID: "AG1", Nom: "Agence de Paris"},
		IDStructureMilo:    "SM1",
	}
	c2 := conseiller.Conseiller{ID: "C2", Prenom: "Albert", Nom: "Durant", Structure: core.StructurePoleEmploi}
	c3 := conseiller.Conseiller{ID: "C3", Prenom: "Léa", Nom: "Martin", Structure: core.StructurePoleEmploi}
	for _, c := range []conseiller.Conseiller{c1, c2, c3} {
		require.NoError(t, repo.Save(ctx, &c))
	}

	found, err := repo.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, c1, *found)

	found, err = repo.GetByIDAuthentification(ctx, "auth-c1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "C1", found.ID)

	found, err = repo.GetByIDAuthentification(ctx, "auth-inconnu")
	require.NoError(t, err)
	assert.Nil(t, found)

	parAgence, err := repo.FindByAgence(ctx, "AG1")
	require.NoError(t, err)
	require.Len(t, parAgence, 1)
	assert.Equal(t, "C1", parAgence[0].ID)
}

func TestAgenceRepository_GetWithinStructure(t *testing.T) {
	db := testutil.SetupTestMongoDB(t)
	repo := mongodb.NewAgenceRepository(db.Collection(infra.CollectionAgences))
	ctx := context.Background()

	a := agence.Agence{ID: "AG1", Nom: "Agence de Paris", Structure: core.StructureMilo}
	require.NoError(t, repo.Save(ctx, &a))

	found, err := repo.Get(ctx, "AG1", core.StructureMilo)
	require.NoError(t, err)
	assert.Equal(t, a, *found)

	found, err = repo.Get(ctx, "AG1", core.StructurePoleEmploi)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func ids(jeunes []jeune.Jeune) []string {
	out := make([]string, 0, len(jeunes))
	for _, j := range jeunes {
		out = append(out, j.ID)
	}
	return out
}
