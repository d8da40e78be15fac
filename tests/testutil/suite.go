package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/tests/mocks"
)

const monitorDrainTimeout = 5 * time.Second

// TestSuite bundles the in-memory repositories, the authorizers built on them
// and a runtime whose monitors can be drained deterministically.
type TestSuite struct {
	t *testing.T

	// Mocks
	Jeunes      *mocks.MockJeuneRepository
	Conseillers *mocks.MockConseillerRepository
	Agences     *mocks.MockAgenceRepository
	Actions     *mocks.MockActionRepository
	Favoris     *mocks.MockFavoriRepository
	Recherches  *mocks.MockRechercheRepository
	RendezVous  *mocks.MockRendezVousRepository
	Listes      *mocks.MockListeDeDiffusionRepository
	Fichiers    *mocks.MockFichierRepository
	Publisher   *mocks.MockEvenementPublisher

	// Runtime
	Dispatcher *appcore.AsyncDispatcher
	Runtime    *appcore.Runtime
	Evenements *evenement.Service

	// Authorizers
	ConseillerAuthorizer            *authorizer.ConseillerAuthorizer
	ConseillerInterAgenceAuthorizer *authorizer.ConseillerInterAgenceAuthorizer
	ConseillerInterStructureMilo    *authorizer.ConseillerInterStructureMiloAuthorizer
	JeuneAuthorizer                 *authorizer.JeuneAuthorizer
	ActionAuthorizer                *authorizer.ActionAuthorizer
	FavoriAuthorizer                *authorizer.FavoriAuthorizer
	RechercheAuthorizer             *authorizer.RechercheAuthorizer
	RendezVousAuthorizer            *authorizer.RendezVousAuthorizer
	ListeDeDiffusionAuthorizer      *authorizer.ListeDeDiffusionAuthorizer
	FichierAuthorizer               *authorizer.FichierAuthorizer
	SupportAuthorizer               *authorizer.SupportAuthorizer
}

// NewTestSuite creates a suite with empty repositories.
func NewTestSuite(t *testing.T) *TestSuite {
	s := &TestSuite{
		t:           t,
		Jeunes:      mocks.NewMockJeuneRepository(),
		Conseillers: mocks.NewMockConseillerRepository(),
		Agences:     mocks.NewMockAgenceRepository(),
		Favoris:     mocks.NewMockFavoriRepository(),
		Recherches:  mocks.NewMockRechercheRepository(),
		RendezVous:  mocks.NewMockRendezVousRepository(),
		Listes:      mocks.NewMockListeDeDiffusionRepository(),
		Fichiers:    mocks.NewMockFichierRepository(),
		Publisher:   mocks.NewMockEvenementPublisher(),
	}
	s.Actions = mocks.NewMockActionRepository(s.Jeunes)

	s.Dispatcher = appcore.NewAsyncDispatcher()
	s.Runtime = appcore.NewRuntime(appcore.WithDispatcher(s.Dispatcher))
	s.Evenements = evenement.NewService(s.Publisher)

	s.ConseillerAuthorizer = authorizer.NewConseillerAuthorizer(s.Conseillers, s.Jeunes)
	s.ConseillerInterAgenceAuthorizer = authorizer.NewConseillerInterAgenceAuthorizer(
		s.Conseillers, s.Jeunes, s.Actions, s.RendezVous)
	s.ConseillerInterStructureMilo = authorizer.NewConseillerInterStructureMiloAuthorizer(
		s.Conseillers, s.Jeunes, s.Actions, s.RendezVous)
	s.JeuneAuthorizer = authorizer.NewJeuneAuthorizer(s.Jeunes)
	s.ActionAuthorizer = authorizer.NewActionAuthorizer(s.Actions)
	s.FavoriAuthorizer = authorizer.NewFavoriAuthorizer(s.Favoris)
	s.RechercheAuthorizer = authorizer.NewRechercheAuthorizer(s.Recherches)
	s.RendezVousAuthorizer = authorizer.NewRendezVousAuthorizer(s.RendezVous, s.Conseillers, s.Jeunes)
	s.ListeDeDiffusionAuthorizer = authorizer.NewListeDeDiffusionAuthorizer(s.Listes)
	s.FichierAuthorizer = authorizer.NewFichierAuthorizer(
		s.Fichiers, s.Jeunes, s.ConseillerAuthorizer, s.ListeDeDiffusionAuthorizer)
	s.SupportAuthorizer = authorizer.NewSupportAuthorizer()

	return s
}

// WaitMonitors blocks until every dispatched monitor has returned.
func (s *TestSuite) WaitMonitors() {
	s.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), monitorDrainTimeout)
	defer cancel()
	require.NoError(s.t, s.Dispatcher.Wait(ctx))
}
