package recherche_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	rechercheapp "github.com/lllypuk/passemploi/internal/application/recherche"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
	"github.com/lllypuk/passemploi/tests/fixtures"
	"github.com/lllypuk/passemploi/tests/testutil"
)

func newSuite(t *testing.T) *testutil.TestSuite {
	s := testutil.NewTestSuite(t)
	j1 := fixtures.UnJeune()
	require.NoError(t, s.Jeunes.Save(context.Background(), &j1))
	return s
}

func TestCreateRecherche(t *testing.T) {
	// Arrange
	s := newSuite(t)
	ctx := context.Background()
	executor := appcore.NewCommandExecutor[rechercheapp.CreateRechercheCommand, recherche.Recherche, recherche.Recherche](
		"CreateRecherche",
		rechercheapp.NewCreateRechercheHandler(s.Recherches, s.JeuneAuthorizer, s.Evenements),
		s.Runtime,
	)

	// Act
	result, err := executor.Execute(ctx, rechercheapp.CreateRechercheCommand{
		IDJeune:      "J1",
		Titre:        "Boulanger à Lyon",
		Type:         recherche.TypeOffresAlternance,
		Metier:       "Boulanger",
		Localisation: "Lyon",
	}, fixtures.UnUtilisateurJeune())
	s.WaitMonitors()

	// Assert
	created := testutil.AssertSuccess(t, result, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, recherche.EtatSucces, created.Etat)
	assert.Equal(t, 1, s.Recherches.Len())
	testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeRechercheSauvegardee)
}

func TestCreateRecherche_UnknownTypeIsBadCommand(t *testing.T) {
	s := newSuite(t)
	executor := appcore.NewCommandExecutor[rechercheapp.CreateRechercheCommand, recherche.Recherche, recherche.Recherche](
		"CreateRecherche",
		rechercheapp.NewCreateRechercheHandler(s.Recherches, s.JeuneAuthorizer, s.Evenements),
		s.Runtime,
	)

	result, err := executor.Execute(context.Background(), rechercheapp.CreateRechercheCommand{
		IDJeune: "J1",
		Titre:   "Boulanger",
		Type:    "OFFRES_INCONNUES",
	}, fixtures.UnUtilisateurJeune())

	testutil.AssertFailure(t, result, err, errs.CodeBadCommand)
	assert.Equal(t, 0, s.Recherches.Len())
}

func TestDeleteRecherche(t *testing.T) {
	tests := []struct {
		name        string
		idRecherche string
		code        errs.Code
	}{
		{"own recherche", "R1", ""},
		{"unknown recherche is hidden", "R404", errs.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			ctx := context.Background()
			r := recherche.Recherche{ID: "R1", IDJeune: "J1", Titre: "Boulanger", Type: recherche.TypeOffresEmploi}
			require.NoError(t, s.Recherches.Save(ctx, &r))
			executor := appcore.NewCommandExecutor[rechercheapp.DeleteRechercheCommand, recherche.Recherche, appcore.Unit](
				"DeleteRecherche",
				rechercheapp.NewDeleteRechercheHandler(s.Recherches, s.RechercheAuthorizer, s.Evenements),
				s.Runtime,
			)

			result, err := executor.Execute(ctx,
				rechercheapp.DeleteRechercheCommand{IDJeune: "J1", IDRecherche: tt.idRecherche},
				fixtures.UnUtilisateurJeune())
			s.WaitMonitors()

			if tt.code != "" {
				testutil.AssertFailure(t, result, err, tt.code)
				assert.Equal(t, 1, s.Recherches.Len())
				return
			}
			testutil.AssertSuccess(t, result, err)
			assert.Equal(t, 0, s.Recherches.Len())
			testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeRechercheSupprimee)
		})
	}
}

func TestGetRecherchesJeune_NewestFirst(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	older := recherche.Recherche{ID: "R1", IDJeune: "J1", DateCreation: fixtures.Now.AddDate(0, 0, -2)}
	newer := recherche.Recherche{ID: "R2", IDJeune: "J1", DateCreation: fixtures.Now}
	other := recherche.Recherche{ID: "R3", IDJeune: "J2", DateCreation: fixtures.Now}
	for _, r := range []*recherche.Recherche{&older, &newer, &other} {
		require.NoError(t, s.Recherches.Save(ctx, r))
	}
	executor := appcore.NewQueryExecutor[rechercheapp.GetRecherchesJeuneQuery, []recherche.Recherche](
		"GetRecherchesJeune",
		rechercheapp.NewGetRecherchesJeuneHandler(s.Recherches, s.JeuneAuthorizer, s.ConseillerAuthorizer),
		s.Runtime,
	)

	result, err := executor.Execute(ctx, rechercheapp.GetRecherchesJeuneQuery{IDJeune: "J1"}, fixtures.UnUtilisateurJeune())

	data := testutil.AssertSuccess(t, result, err)
	require.Len(t, data, 2)
	assert.Equal(t, "R2", data[0].ID)
	assert.Equal(t, "R1", data[1].ID)
}

func TestGetRecherchesJeune_Authorization(t *testing.T) {
	tests := []struct {
		name        string
		utilisateur authentification.Utilisateur
		code        errs.Code
	}{
		{"the jeune", fixtures.UnUtilisateurJeune(), ""},
		{"his conseiller", fixtures.UnUtilisateurConseiller(), ""},
		{"another conseiller", fixtures.UnUtilisateurConseiller(fixtures.WithID("C2")), errs.CodeForbidden},
		{"another jeune", fixtures.UnUtilisateurJeune(fixtures.WithID("J2")), errs.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			ctx := context.Background()
			r := recherche.Recherche{ID: "R1", IDJeune: "J1", Titre: "Boulanger", DateCreation: fixtures.Now}
			require.NoError(t, s.Recherches.Save(ctx, &r))
			executor := appcore.NewQueryExecutor[rechercheapp.GetRecherchesJeuneQuery, []recherche.Recherche](
				"GetRecherchesJeune",
				rechercheapp.NewGetRecherchesJeuneHandler(s.Recherches, s.JeuneAuthorizer, s.ConseillerAuthorizer),
				s.Runtime,
			)

			result, err := executor.Execute(ctx, rechercheapp.GetRecherchesJeuneQuery{IDJeune: "J1"}, tt.utilisateur)

			if tt.code != "" {
				testutil.AssertFailure(t, result, err, tt.code)
				return
			}
			assert.Len(t, testutil.AssertSuccess(t, result, err), 1)
		})
	}
}
