//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	favoriapp "github.com/lllypuk/passemploi/internal/application/favori"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	mongodbinfra "github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
	"github.com/lllypuk/passemploi/internal/infrastructure/repository/mongodb"
	"github.com/lllypuk/passemploi/tests/fixtures"
	"github.com/lllypuk/passemploi/tests/testutil"
)

type pipeline struct {
	addFavori  *appcore.CommandExecutor[favoriapp.AddFavoriCommand, favori.Favori, favori.Favori]
	dispatcher *appcore.AsyncDispatcher
	stored     *mongodb.EvenementRepository
}

// newPipeline wires the API side (use case on MongoDB publishing on Redis) and
// the worker side (bus storing every evenement in MongoDB).
func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	ctx := testutil.NewTestContext(t)
	db := testutil.SetupTestMongoDB(t)
	client := testutil.SetupTestRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jeunes := mongodb.NewJeuneRepository(db.Collection(mongodbinfra.CollectionJeunes))
	j := fixtures.UnJeune()
	require.NoError(t, jeunes.Save(ctx, &j))

	stored := mongodb.NewEvenementRepository(db.Collection(mongodbinfra.CollectionEvenementsEngagement))

	worker := eventbus.NewRedisEventBus(client, eventbus.WithLogger(logger))
	require.NoError(t, eventbus.RegisterForAllCodes(worker, eventbus.NewStoreHandler(stored).AsHandler()))
	startWorker(t, client, worker)

	dispatcher := appcore.NewAsyncDispatcher(appcore.WithDispatcherLogger(logger))
	runtime := appcore.NewRuntime(appcore.WithLogger(logger), appcore.WithDispatcher(dispatcher))
	publisher := eventbus.NewRedisEventBus(client, eventbus.WithLogger(logger))

	addFavori := appcore.NewCommandExecutor[favoriapp.AddFavoriCommand, favori.Favori, favori.Favori](
		"AddFavori",
		favoriapp.NewAddFavoriHandler(
			mongodb.NewFavoriRepository(db.Collection(mongodbinfra.CollectionFavoris)),
			authorizer.NewJeuneAuthorizer(jeunes),
			evenement.NewService(publisher),
		),
		runtime,
	)

	return &pipeline{addFavori: addFavori, dispatcher: dispatcher, stored: stored}
}

func startWorker(t *testing.T, client *redis.Client, bus *eventbus.RedisEventBus) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Start(ctx)
	}()
	t.Cleanup(func() {
		_ = bus.Shutdown()
		cancel()
		<-done
	})

	channel := bus.ChannelName(evenement.CodeFavoriCree)
	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && subs[channel] > 0
	}, 5*time.Second, 10*time.Millisecond)
}

func (p *pipeline) waitMonitors(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.dispatcher.Wait(ctx))
}

func (p *pipeline) storedCodes(t *testing.T) []evenement.Code {
	t.Helper()
	evenements, err := p.stored.FindByEmetteur(context.Background(), "J1")
	require.NoError(t, err)

	codes := make([]evenement.Code, 0, len(evenements))
	for _, e := range evenements {
		codes = append(codes, e.Code)
	}
	return codes
}

func TestEvenementsPipeline_FavoriAvecCandidature(t *testing.T) {
	p := newPipeline(t)
	ctx := testutil.NewTestContext(t)

	result, err := p.addFavori.Execute(ctx, favoriapp.AddFavoriCommand{
		IDJeune:         "J1",
		IDOffre:         "O42",
		Type:            favori.TypeOffreEmploi,
		Titre:           "Boulanger",
		AvecCandidature: true,
	}, fixtures.UnUtilisateurJeune())
	testutil.AssertSuccess(t, result, err)
	p.waitMonitors(t)

	require.Eventually(t, func() bool { return len(p.storedCodes(t)) == 2 }, 5*time.Second, 20*time.Millisecond)
	assert.ElementsMatch(t,
		[]evenement.Code{evenement.CodeFavoriCree, evenement.CodeFavoriCandidature},
		p.storedCodes(t),
	)
}

func TestEvenementsPipeline_RefusedCommandEmitsNothing(t *testing.T) {
	p := newPipeline(t)
	ctx := testutil.NewTestContext(t)

	result, err := p.addFavori.Execute(ctx, favoriapp.AddFavoriCommand{
		IDJeune: "J1",
		IDOffre: "O42",
		Type:    favori.TypeOffreEmploi,
		Titre:   "Boulanger",
	}, fixtures.UnUtilisateurJeune(fixtures.WithID("J2")))
	testutil.AssertFailure(t, result, err, errs.CodeForbidden)
	p.waitMonitors(t)

	// Leaves the worker time to store anything that was published.
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, p.storedCodes(t))
}

func TestEvenementsPipeline_DuplicateFavoriIsStillMonitored(t *testing.T) {
	p := newPipeline(t)
	ctx := testutil.NewTestContext(t)
	cmd := favoriapp.AddFavoriCommand{IDJeune: "J1", IDOffre: "O7", Type: favori.TypeOffreAlternance, Titre: "Apprenti"}

	first, err := p.addFavori.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
	testutil.AssertSuccess(t, first, err)

	second, err := p.addFavori.Execute(ctx, cmd, fixtures.UnUtilisateurJeune())
	testutil.AssertFailure(t, second, err, errs.CodeAlreadyExists)
	p.waitMonitors(t)

	require.Eventually(t, func() bool { return len(p.storedCodes(t)) == 2 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, []evenement.Code{evenement.CodeFavoriCree, evenement.CodeFavoriCree}, p.storedCodes(t))
}
