package favori_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	favoriapp "github.com/lllypuk/passemploi/internal/application/favori"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
	"github.com/lllypuk/passemploi/tests/fixtures"
	"github.com/lllypuk/passemploi/tests/testutil"
)

func newSuite(t *testing.T) *testutil.TestSuite {
	s := testutil.NewTestSuite(t)
	ctx := context.Background()
	j1 := fixtures.UnJeune()
	require.NoError(t, s.Jeunes.Save(ctx, &j1))
	c1 := fixtures.UnConseiller()
	require.NoError(t, s.Conseillers.Save(ctx, &c1))
	return s
}

func beneficiaire() authentification.Utilisateur {
	return fixtures.UnUtilisateurJeune(func(u *authentification.Utilisateur) {
		u.Type = authentification.TypeBeneficiaire
	})
}

func candidaterExecutor(s *testutil.TestSuite) *appcore.CommandExecutor[favoriapp.CandidaterFavoriCommand, favori.Favori, favori.Favori] {
	return appcore.NewCommandExecutor[favoriapp.CandidaterFavoriCommand, favori.Favori, favori.Favori](
		"CandidaterFavori",
		favoriapp.NewCandidaterFavoriHandler(s.Favoris, s.JeuneAuthorizer, s.Evenements),
		s.Runtime,
	)
}

func TestCandidaterFavori_NotFoundDoesNotSave(t *testing.T) {
	// Arrange
	s := newSuite(t)
	executor := candidaterExecutor(s)

	// Act
	result, err := executor.Execute(context.Background(),
		favoriapp.CandidaterFavoriCommand{IDBeneficiaire: "J1", IDOffre: "O1"}, beneficiaire())

	// Assert
	domainErr := testutil.AssertFailure(t, result, err, errs.CodeNotFound)
	assert.Equal(t, "Favori O1 non trouvé(e)", domainErr.Message)
	assert.Equal(t, 0, s.Favoris.CallCount("Save"))
}

func TestCandidaterFavori_SucceedsEvenWhenMonitorFails(t *testing.T) {
	// Arrange
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))
	s.Publisher.FailWith(nil)
	executor := candidaterExecutor(s)

	// Act
	result, err := executor.Execute(ctx,
		favoriapp.CandidaterFavoriCommand{IDBeneficiaire: "J1", IDOffre: "O1"}, beneficiaire())
	s.WaitMonitors()

	// Assert
	updated := testutil.AssertSuccess(t, result, err)
	require.NotNil(t, updated.DateCandidature)

	stored, err := s.Favoris.Get(ctx, "J1", "O1")
	require.NoError(t, err)
	assert.Equal(t, updated.DateCandidature, stored.DateCandidature)
	assert.Empty(t, s.Publisher.Published())
}

func TestCandidaterFavori_PublishesCandidature(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))

	result, err := candidaterExecutor(s).Execute(ctx,
		favoriapp.CandidaterFavoriCommand{IDBeneficiaire: "J1", IDOffre: "O1"}, beneficiaire())
	s.WaitMonitors()

	testutil.AssertSuccess(t, result, err)
	testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeFavoriCandidature)
	assert.Equal(t, "J1", s.Publisher.Published()[0].Emetteur.ID)
}

func TestCandidaterFavori_ForbiddenForAnotherJeune(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))

	result, err := candidaterExecutor(s).Execute(ctx,
		favoriapp.CandidaterFavoriCommand{IDBeneficiaire: "J1", IDOffre: "O1"},
		fixtures.UnUtilisateurJeune(fixtures.WithID("J2")))
	s.WaitMonitors()

	testutil.AssertFailure(t, result, err, errs.CodeForbidden)
	assert.Equal(t, 0, s.Favoris.CallCount("Get"))
	assert.Empty(t, s.Publisher.Published())
}

func TestAddFavori(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	executor := appcore.NewCommandExecutor[favoriapp.AddFavoriCommand, favori.Favori, favori.Favori](
		"AddFavori",
		favoriapp.NewAddFavoriHandler(s.Favoris, s.JeuneAuthorizer, s.Evenements),
		s.Runtime,
	)
	cmd := favoriapp.AddFavoriCommand{
		IDJeune:         "J1",
		IDOffre:         "O1",
		Type:            favori.TypeOffreAlternance,
		Titre:           "Alternance développeur",
		AvecCandidature: true,
	}

	t.Run("creates the favori", func(t *testing.T) {
		result, err := executor.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
		s.WaitMonitors()

		created := testutil.AssertSuccess(t, result, err)
		assert.Equal(t, favori.TypeOffreAlternance, created.Type)
		assert.NotNil(t, created.DateCandidature)
		testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeFavoriCree, evenement.CodeFavoriCandidature)
	})

	t.Run("refuses a duplicate", func(t *testing.T) {
		result, err := executor.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
		testutil.AssertFailure(t, result, err, errs.CodeAlreadyExists)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		invalid := cmd
		invalid.IDOffre = "O2"
		invalid.Type = "OFFRE_INCONNUE"

		result, err := executor.Execute(ctx, invalid, fixtures.UnUtilisateurJeune())
		testutil.AssertFailure(t, result, err, errs.CodeBadCommand)
	})
}

func TestDeleteFavori(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))
	executor := appcore.NewCommandExecutor[favoriapp.DeleteFavoriCommand, favori.Favori, appcore.Unit](
		"DeleteFavori",
		favoriapp.NewDeleteFavoriHandler(s.Favoris, s.JeuneAuthorizer, s.Evenements),
		s.Runtime,
	)
	cmd := favoriapp.DeleteFavoriCommand{IDJeune: "J1", IDOffre: "O1"}

	result, err := executor.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
	testutil.AssertSuccess(t, result, err)
	assert.Equal(t, 0, s.Favoris.Len())

	result, err = executor.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
	testutil.AssertFailure(t, result, err, errs.CodeNotFound)

	s.WaitMonitors()
	testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeFavoriSupprime, evenement.CodeFavoriSupprime)
}

func TestGetFavorisJeune(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	ancien := fixtures.UnFavori()
	recent := fixtures.UnFavori(func(f *favori.Favori) {
		f.IDOffre = "O2"
		f.DateCreation = fixtures.Now
	})
	require.NoError(t, s.Favoris.Save(ctx, &ancien))
	require.NoError(t, s.Favoris.Save(ctx, &recent))

	executor := appcore.NewQueryExecutor[favoriapp.GetFavorisJeuneQuery, []favori.Favori](
		"GetFavorisJeune",
		favoriapp.NewGetFavorisJeuneHandler(s.Favoris, s.JeuneAuthorizer, s.ConseillerInterAgenceAuthorizer, s.Evenements),
		s.Runtime,
	)

	t.Run("jeune reads his favoris, most recent first", func(t *testing.T) {
		result, err := executor.Execute(ctx, favoriapp.GetFavorisJeuneQuery{IDJeune: "J1"}, fixtures.UnUtilisateurJeune())
		s.WaitMonitors()

		favoris := testutil.AssertSuccess(t, result, err)
		require.Len(t, favoris, 2)
		assert.Equal(t, "O2", favoris[0].IDOffre)
		assert.Empty(t, s.Publisher.Codes())
	})

	t.Run("conseiller reading them is recorded", func(t *testing.T) {
		result, err := executor.Execute(ctx, favoriapp.GetFavorisJeuneQuery{IDJeune: "J1"}, fixtures.UnUtilisateurConseiller())
		s.WaitMonitors()

		testutil.AssertSuccess(t, result, err)
		testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeFavorisConsultes)
	})

	t.Run("conseiller needs the jeune to share", func(t *testing.T) {
		prive := fixtures.UnJeune(func(j *jeune.Jeune) {
			j.ID = "J2"
			j.Preferences.PartageFavoris = false
		})
		require.NoError(t, s.Jeunes.Save(ctx, &prive))

		result, err := executor.Execute(ctx, favoriapp.GetFavorisJeuneQuery{IDJeune: "J2"}, fixtures.UnUtilisateurConseiller())
		testutil.AssertFailure(t, result, err, errs.CodeForbidden)
	})
}

func TestGetFavori_HidesOtherJeunesOffers(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))
	executor := appcore.NewQueryExecutor[favoriapp.GetFavoriQuery, favori.Favori](
		"GetFavori", favoriapp.NewGetFavoriHandler(s.Favoris, s.FavoriAuthorizer), s.Runtime)

	result, err := executor.Execute(ctx, favoriapp.GetFavoriQuery{IDJeune: "J1", IDOffre: "O1"}, fixtures.UnUtilisateurJeune())
	assert.Equal(t, "O1", testutil.AssertSuccess(t, result, err).IDOffre)

	intrus := fixtures.UnUtilisateurJeune(fixtures.WithID("J2"))
	existing, err := executor.Execute(ctx, favoriapp.GetFavoriQuery{IDJeune: "J1", IDOffre: "O1"}, intrus)
	testutil.AssertFailure(t, existing, err, errs.CodeForbidden)
	missing, err := executor.Execute(ctx, favoriapp.GetFavoriQuery{IDJeune: "J1", IDOffre: "O9"}, intrus)
	testutil.AssertFailure(t, missing, err, errs.CodeForbidden)
}

func TestGetMetadonneesFavoris(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	f := fixtures.UnFavori()
	require.NoError(t, s.Favoris.Save(ctx, &f))
	require.NoError(t, s.Recherches.Save(ctx, &recherche.Recherche{ID: "R1", IDJeune: "J1", Type: recherche.TypeOffresImmersion}))
	executor := appcore.NewQueryExecutor[favoriapp.GetMetadonneesFavorisQuery, favoriapp.MetadonneesFavoris](
		"GetMetadonneesFavoris",
		favoriapp.NewGetMetadonneesFavorisHandler(s.Favoris, s.Recherches, s.Jeunes, s.ConseillerInterAgenceAuthorizer),
		s.Runtime,
	)

	result, err := executor.Execute(ctx, favoriapp.GetMetadonneesFavorisQuery{IDJeune: "J1"}, fixtures.UnUtilisateurConseiller())

	meta := testutil.AssertSuccess(t, result, err)
	assert.True(t, meta.AutoriseLePartage)
	assert.Equal(t, 1, meta.Offres.Total)
	assert.Equal(t, 1, meta.Offres.ParType[favori.TypeOffreEmploi])
	assert.Equal(t, 1, meta.Recherches.Total)
	assert.Equal(t, 1, meta.Recherches.ParType[recherche.TypeOffresImmersion])
	assert.Equal(t, 0, meta.Recherches.ParType[recherche.TypeOffresEmploi])
}

func TestGetFavorisJeune_UnexpectedErrorIsNotAResult(t *testing.T) {
	s := newSuite(t)
	s.Favoris.FailWith(nil)
	executor := appcore.NewQueryExecutor[favoriapp.GetFavorisJeuneQuery, []favori.Favori](
		"GetFavorisJeune",
		favoriapp.NewGetFavorisJeuneHandler(s.Favoris, s.JeuneAuthorizer, s.ConseillerInterAgenceAuthorizer, s.Evenements),
		s.Runtime,
	)

	result, err := executor.Execute(context.Background(), favoriapp.GetFavorisJeuneQuery{IDJeune: "J1"}, fixtures.UnUtilisateurJeune())

	testutil.AssertUnexpected(t, err, appcore.StepHandle)
	assert.False(t, result.IsSuccess())
}
