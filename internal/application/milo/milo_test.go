package milo_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	miloapp "github.com/lllypuk/passemploi/internal/application/milo"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/milo"
	"github.com/lllypuk/passemploi/tests/fixtures"
	"github.com/lllypuk/passemploi/tests/testutil"
)

type fakeClient struct {
	sessions  []milo.Session
	failure   *errs.DomainError
	err       error
	structure string
}

func (c *fakeClient) GetSessionsStructure(_ context.Context, idStructureMilo string) (appcore.Result[[]milo.Session], error) {
	c.structure = idStructureMilo
	if c.err != nil {
		return appcore.Result[[]milo.Session]{}, c.err
	}
	if c.failure != nil {
		return appcore.Failure[[]milo.Session](c.failure), nil
	}
	return appcore.Success(c.sessions), nil
}

func newSuite(t *testing.T) *testutil.TestSuite {
	s := testutil.NewTestSuite(t)
	ctx := context.Background()
	c1 := fixtures.UnConseiller()
	sansStructure := fixtures.UnConseiller(func(c *conseiller.Conseiller) {
		c.ID = "C8"
		c.IDStructureMilo = ""
	})
	for _, c := range []*conseiller.Conseiller{&c1, &sansStructure} {
		require.NoError(t, s.Conseillers.Save(ctx, c))
	}
	return s
}

func sessionsExecutor(s *testutil.TestSuite, client miloapp.SessionsClient) *appcore.QueryExecutor[miloapp.GetSessionsConseillerMiloQuery, []milo.Session] {
	return appcore.NewQueryExecutor[miloapp.GetSessionsConseillerMiloQuery, []milo.Session](
		"GetSessionsConseillerMilo",
		miloapp.NewGetSessionsConseillerMiloHandler(s.Conseillers, client, s.ConseillerAuthorizer, s.Evenements),
		s.Runtime,
	)
}

func TestGetSessionsConseillerMilo_SortedByStart(t *testing.T) {
	// Arrange
	s := newSuite(t)
	debut := fixtures.Now
	client := &fakeClient{sessions: []milo.Session{
		{ID: "S2", DateHeureDebut: debut.Add(2 * time.Hour)},
		{ID: "S1", DateHeureDebut: debut},
	}}

	// Act
	result, err := sessionsExecutor(s, client).Execute(context.Background(),
		miloapp.GetSessionsConseillerMiloQuery{IDConseiller: "C1"}, fixtures.UnUtilisateurConseiller())
	s.WaitMonitors()

	// Assert
	sessions := testutil.AssertSuccess(t, result, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "S1", sessions[0].ID)
	assert.Equal(t, "SM1", client.structure)
	testutil.AssertEvenements(t, s.Publisher.Codes(), evenement.CodeSessionsMiloConsultees)
}

func TestGetSessionsConseillerMilo_UpstreamError(t *testing.T) {
	s := newSuite(t)
	client := &fakeClient{failure: errs.Upstream("maintenance", http.StatusServiceUnavailable)}

	result, err := sessionsExecutor(s, client).Execute(context.Background(),
		miloapp.GetSessionsConseillerMiloQuery{IDConseiller: "C1"}, fixtures.UnUtilisateurConseiller())
	s.WaitMonitors()

	domainErr := testutil.AssertFailure(t, result, err, errs.CodeUpstream)
	assert.Equal(t, http.StatusServiceUnavailable, domainErr.StatusCode)
	assert.Equal(t, "maintenance", domainErr.Body)
	testutil.AssertEvenements(t, s.Publisher.Codes())
}

func TestGetSessionsConseillerMilo_TransportErrorIsUnexpected(t *testing.T) {
	s := newSuite(t)
	client := &fakeClient{err: errors.New("dial tcp: connection refused")}

	_, err := sessionsExecutor(s, client).Execute(context.Background(),
		miloapp.GetSessionsConseillerMiloQuery{IDConseiller: "C1"}, fixtures.UnUtilisateurConseiller())

	testutil.AssertUnexpected(t, err, appcore.StepHandle)
}

func TestGetSessionsConseillerMilo_Failures(t *testing.T) {
	tests := []struct {
		name        string
		utilisateur authentification.Utilisateur
		id          string
		code        errs.Code
	}{
		{"conseiller of another structure", fixtures.UnUtilisateurConseiller(fixtures.WithStructure(core.StructurePoleEmploi)), "C1", errs.CodeForbidden},
		{"jeune", fixtures.UnUtilisateurJeune(), "C1", errs.CodeForbidden},
		{"conseiller without structure milo", fixtures.UnUtilisateurConseiller(fixtures.WithID("C8")), "C8", errs.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			client := &fakeClient{}

			result, err := sessionsExecutor(s, client).Execute(context.Background(),
				miloapp.GetSessionsConseillerMiloQuery{IDConseiller: tt.id}, tt.utilisateur)

			testutil.AssertFailure(t, result, err, tt.code)
			assert.Empty(t, client.structure)
		})
	}
}

func TestGetJeunesByStructureMilo(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	for _, j := range []jeune.Jeune{
		fixtures.UnJeune(func(j *jeune.Jeune) { j.ID = "J1"; j.Nom = "Zola" }),
		fixtures.UnJeune(func(j *jeune.Jeune) { j.ID = "J2"; j.Nom = "Aragon" }),
		fixtures.UnJeune(func(j *jeune.Jeune) { j.ID = "J3"; j.IDStructureMilo = "SM2" }),
	} {
		require.NoError(t, s.Jeunes.Save(ctx, &j))
	}
	executor := appcore.NewQueryExecutor[miloapp.GetJeunesByStructureMiloQuery, []jeune.Jeune](
		"GetJeunesByStructureMilo",
		miloapp.NewGetJeunesByStructureMiloHandler(s.Jeunes, s.ConseillerInterStructureMilo),
		s.Runtime,
	)

	tests := []struct {
		name        string
		utilisateur authentification.Utilisateur
		structure   string
		expected    []string
		code        errs.Code
	}{
		{"conseiller of the structure", fixtures.UnUtilisateurConseiller(), "SM1", []string{"J2", "J1"}, ""},
		{"superviseur of the structure", fixtures.UnUtilisateurConseiller(fixtures.WithRoles(authentification.RoleSuperviseur)), "SM1", []string{"J2", "J1"}, ""},
		{"superviseur of another structure", fixtures.UnUtilisateurConseiller(fixtures.WithRoles(authentification.RoleSuperviseur)), "SM2", nil, errs.CodeForbidden},
		{"superviseur role without conseiller", authentification.Utilisateur{
			ID: "ghost", Type: authentification.TypeJeune, Structure: core.StructureMilo,
			Roles: []authentification.Role{authentification.RoleSuperviseur},
		}, "SM2", nil, errs.CodeForbidden},
		{"unknown conseiller", fixtures.UnUtilisateurConseiller(fixtures.WithID("C-inconnu")), "SM1", nil, errs.CodeForbidden},
		{"conseiller of another structure", fixtures.UnUtilisateurConseiller(), "SM2", nil, errs.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := executor.Execute(ctx, miloapp.GetJeunesByStructureMiloQuery{IDStructureMilo: tt.structure}, tt.utilisateur)

			if tt.code != "" {
				testutil.AssertFailure(t, result, err, tt.code)
				return
			}
			data := testutil.AssertSuccess(t, result, err)
			ids := make([]string, 0, len(data))
			for _, j := range data {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
