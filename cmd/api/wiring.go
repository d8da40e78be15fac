package main

import (
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	actionapp "github.com/lllypuk/passemploi/internal/application/action"
	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/application/authorizer"
	favoriapp "github.com/lllypuk/passemploi/internal/application/favori"
	fichierapp "github.com/lllypuk/passemploi/internal/application/fichier"
	listeapp "github.com/lllypuk/passemploi/internal/application/listediffusion"
	miloapp "github.com/lllypuk/passemploi/internal/application/milo"
	rechercheapp "github.com/lllypuk/passemploi/internal/application/recherche"
	rdvapp "github.com/lllypuk/passemploi/internal/application/rendezvous"
	supportapp "github.com/lllypuk/passemploi/internal/application/support"
	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/agence"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
	milodomain "github.com/lllypuk/passemploi/internal/domain/milo"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
	httphandler "github.com/lllypuk/passemploi/internal/handler/http"
	"github.com/lllypuk/passemploi/internal/infrastructure/cache"
	"github.com/lllypuk/passemploi/internal/infrastructure/httpserver"
	mongodbinfra "github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
	"github.com/lllypuk/passemploi/internal/infrastructure/repository/mongodb"
)

// Repositories groups the persistence ports used by the use cases.
type Repositories struct {
	Jeunes      jeune.Repository
	Conseillers conseiller.Repository
	Agences     agence.Repository
	Actions     action.Repository
	Favoris     favori.Repository
	Recherches  recherche.Repository
	RendezVous  rendezvous.Repository
	Listes      listediffusion.Repository
	Fichiers    fichier.Repository
	Evenements  evenement.Repository
}

// NewMongoRepositories builds the MongoDB repositories of db. Conseillers are
// read through an in-process cache when conseillerTTL is positive.
func NewMongoRepositories(db *mongo.Database, conseillerTTL time.Duration, logger *slog.Logger) Repositories {
	opt := mongodb.WithLogger(logger)
	jeunes := db.Collection(mongodbinfra.CollectionJeunes)

	var conseillers conseiller.Repository = mongodb.NewConseillerRepository(
		db.Collection(mongodbinfra.CollectionConseillers), opt,
	)
	if conseillerTTL > 0 {
		conseillers = cache.NewConseillerRepository(conseillers, conseillerTTL)
	}

	return Repositories{
		Jeunes:      mongodb.NewJeuneRepository(jeunes, opt),
		Conseillers: conseillers,
		Agences:     mongodb.NewAgenceRepository(db.Collection(mongodbinfra.CollectionAgences), opt),
		Actions:     mongodb.NewActionRepository(db.Collection(mongodbinfra.CollectionActions), jeunes, opt),
		Favoris:     mongodb.NewFavoriRepository(db.Collection(mongodbinfra.CollectionFavoris), opt),
		Recherches:  mongodb.NewRechercheRepository(db.Collection(mongodbinfra.CollectionRecherches), opt),
		RendezVous:  mongodb.NewRendezVousRepository(db.Collection(mongodbinfra.CollectionRendezVous), opt),
		Listes:      mongodb.NewListeDeDiffusionRepository(db.Collection(mongodbinfra.CollectionListesDeDiffusion), opt),
		Fichiers:    mongodb.NewFichierRepository(db.Collection(mongodbinfra.CollectionFichiers), opt),
		Evenements: mongodb.NewEvenementRepository(
			db.Collection(mongodbinfra.CollectionEvenementsEngagement), opt,
		),
	}
}

// Handlers groups the HTTP route registrars.
type Handlers struct {
	Actions    *httphandler.ActionHandler
	Favoris    *httphandler.FavoriHandler
	Recherches *httphandler.RechercheHandler
	RendezVous *httphandler.RendezVousHandler
	Listes     *httphandler.ListeDeDiffusionHandler
	Fichiers   *httphandler.FichierHandler
	Support    *httphandler.SupportHandler
	Milo       *httphandler.MiloHandler
}

// All returns every handler in registration order.
func (h Handlers) All() []httpserver.RouteRegistrar {
	return []httpserver.RouteRegistrar{
		h.Actions,
		h.Favoris,
		h.Recherches,
		h.RendezVous,
		h.Listes,
		h.Fichiers,
		h.Support,
		h.Milo,
	}
}

// authorizers groups the shared authorization rules.
type authorizers struct {
	jeune       *authorizer.JeuneAuthorizer
	conseiller  *authorizer.ConseillerAuthorizer
	agence      *authorizer.ConseillerInterAgenceAuthorizer
	structure   *authorizer.ConseillerInterStructureMiloAuthorizer
	action      *authorizer.ActionAuthorizer
	favori      *authorizer.FavoriAuthorizer
	recherche   *authorizer.RechercheAuthorizer
	rendezVous  *authorizer.RendezVousAuthorizer
	liste       *authorizer.ListeDeDiffusionAuthorizer
	fichier     *authorizer.FichierAuthorizer
	support     *authorizer.SupportAuthorizer
}

func newAuthorizers(repos Repositories) authorizers {
	conseillerAuth := authorizer.NewConseillerAuthorizer(repos.Conseillers, repos.Jeunes)
	listeAuth := authorizer.NewListeDeDiffusionAuthorizer(repos.Listes)

	return authorizers{
		jeune:      authorizer.NewJeuneAuthorizer(repos.Jeunes),
		conseiller: conseillerAuth,
		agence: authorizer.NewConseillerInterAgenceAuthorizer(
			repos.Conseillers, repos.Jeunes, repos.Actions, repos.RendezVous,
		),
		structure: authorizer.NewConseillerInterStructureMiloAuthorizer(
			repos.Conseillers, repos.Jeunes, repos.Actions, repos.RendezVous,
		),
		action:      authorizer.NewActionAuthorizer(repos.Actions),
		favori:      authorizer.NewFavoriAuthorizer(repos.Favoris),
		recherche:   authorizer.NewRechercheAuthorizer(repos.Recherches),
		rendezVous:  authorizer.NewRendezVousAuthorizer(repos.RendezVous, repos.Conseillers, repos.Jeunes),
		liste:       listeAuth,
		fichier:     authorizer.NewFichierAuthorizer(repos.Fichiers, repos.Jeunes, conseillerAuth, listeAuth),
		support:     authorizer.NewSupportAuthorizer(),
	}
}

// BuildHandlers wires every use case behind its executor and exposes them over HTTP.
// Evenements d'engagement produced by the monitors go to publisher.
func BuildHandlers(
	repos Repositories,
	miloClient miloapp.SessionsClient,
	publisher evenement.Publisher,
	runtime *appcore.Runtime,
) Handlers {
	auth := newAuthorizers(repos)
	evenements := evenement.NewService(publisher)

	return Handlers{
		Actions:    buildActionHandler(repos, auth, evenements, runtime),
		Favoris:    buildFavoriHandler(repos, auth, evenements, runtime),
		Recherches: buildRechercheHandler(repos, auth, evenements, runtime),
		RendezVous: buildRendezVousHandler(repos, auth, evenements, runtime),
		Listes:     buildListeHandler(repos, auth, evenements, runtime),
		Fichiers:   buildFichierHandler(repos, auth, evenements, runtime),
		Support:    buildSupportHandler(repos, auth, runtime),
		Milo:       buildMiloHandler(repos, auth, miloClient, evenements, runtime),
	}
}

func buildActionHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.ActionHandler {
	return httphandler.NewActionHandler(httphandler.ActionExecutors{
		Create: appcore.NewCommandExecutor[actionapp.CreateActionCommand, action.Action, string](
			"CreateAction",
			actionapp.NewCreateActionHandler(repos.Actions, repos.Jeunes, auth.jeune, auth.conseiller, evenements),
			runtime,
		),
		UpdateStatut: appcore.NewCommandExecutor[actionapp.UpdateStatutActionCommand, action.Action, appcore.Unit](
			"UpdateStatutAction",
			actionapp.NewUpdateStatutActionHandler(repos.Actions, auth.action, evenements),
			runtime,
		),
		Delete: appcore.NewCommandExecutor[actionapp.DeleteActionCommand, action.Action, appcore.Unit](
			"DeleteAction",
			actionapp.NewDeleteActionHandler(repos.Actions, auth.action, evenements),
			runtime,
		),
		List: appcore.NewQueryExecutor[actionapp.GetActionsJeuneQuery, actionapp.ActionsJeune](
			"GetActionsJeune",
			actionapp.NewGetActionsJeuneHandler(repos.Actions, auth.jeune, auth.agence),
			runtime,
		),
		Detail: appcore.NewQueryExecutor[actionapp.GetDetailActionQuery, action.Action](
			"GetDetailAction",
			actionapp.NewGetDetailActionHandler(repos.Actions, auth.action, auth.structure),
			runtime,
		),
	})
}

func buildFavoriHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.FavoriHandler {
	return httphandler.NewFavoriHandler(httphandler.FavoriExecutors{
		Add: appcore.NewCommandExecutor[favoriapp.AddFavoriCommand, favori.Favori, favori.Favori](
			"AddFavori",
			favoriapp.NewAddFavoriHandler(repos.Favoris, auth.jeune, evenements),
			runtime,
		),
		Candidater: appcore.NewCommandExecutor[favoriapp.CandidaterFavoriCommand, favori.Favori, favori.Favori](
			"CandidaterFavori",
			favoriapp.NewCandidaterFavoriHandler(repos.Favoris, auth.jeune, evenements),
			runtime,
		),
		Delete: appcore.NewCommandExecutor[favoriapp.DeleteFavoriCommand, favori.Favori, appcore.Unit](
			"DeleteFavori",
			favoriapp.NewDeleteFavoriHandler(repos.Favoris, auth.jeune, evenements),
			runtime,
		),
		List: appcore.NewQueryExecutor[favoriapp.GetFavorisJeuneQuery, []favori.Favori](
			"GetFavorisJeune",
			favoriapp.NewGetFavorisJeuneHandler(repos.Favoris, auth.jeune, auth.agence, evenements),
			runtime,
		),
		Get: appcore.NewQueryExecutor[favoriapp.GetFavoriQuery, favori.Favori](
			"GetFavori",
			favoriapp.NewGetFavoriHandler(repos.Favoris, auth.favori),
			runtime,
		),
		Metadonnees: appcore.NewQueryExecutor[favoriapp.GetMetadonneesFavorisQuery, favoriapp.MetadonneesFavoris](
			"GetMetadonneesFavoris",
			favoriapp.NewGetMetadonneesFavorisHandler(repos.Favoris, repos.Recherches, repos.Jeunes, auth.agence),
			runtime,
		),
	})
}

func buildRechercheHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.RechercheHandler {
	return httphandler.NewRechercheHandler(httphandler.RechercheExecutors{
		Create: appcore.NewCommandExecutor[rechercheapp.CreateRechercheCommand, recherche.Recherche, recherche.Recherche](
			"CreateRecherche",
			rechercheapp.NewCreateRechercheHandler(repos.Recherches, auth.jeune, evenements),
			runtime,
		),
		Delete: appcore.NewCommandExecutor[rechercheapp.DeleteRechercheCommand, recherche.Recherche, appcore.Unit](
			"DeleteRecherche",
			rechercheapp.NewDeleteRechercheHandler(repos.Recherches, auth.recherche, evenements),
			runtime,
		),
		List: appcore.NewQueryExecutor[rechercheapp.GetRecherchesJeuneQuery, []recherche.Recherche](
			"GetRecherchesJeune",
			rechercheapp.NewGetRecherchesJeuneHandler(repos.Recherches, auth.jeune, auth.conseiller),
			runtime,
		),
	})
}

func buildRendezVousHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.RendezVousHandler {
	return httphandler.NewRendezVousHandler(httphandler.RendezVousExecutors{
		Create: appcore.NewCommandExecutor[rdvapp.CreateRendezVousCommand, rendezvous.RendezVous, string](
			"CreateRendezVous",
			rdvapp.NewCreateRendezVousHandler(repos.RendezVous, repos.Conseillers, repos.Jeunes, auth.conseiller, evenements),
			runtime,
		),
		Update: appcore.NewCommandExecutor[rdvapp.UpdateRendezVousCommand, rendezvous.RendezVous, appcore.Unit](
			"UpdateRendezVous",
			rdvapp.NewUpdateRendezVousHandler(repos.RendezVous, repos.Jeunes, auth.rendezVous, evenements),
			runtime,
		),
		Delete: appcore.NewCommandExecutor[rdvapp.DeleteRendezVousCommand, rendezvous.RendezVous, appcore.Unit](
			"DeleteRendezVous",
			rdvapp.NewDeleteRendezVousHandler(repos.RendezVous, auth.rendezVous, evenements),
			runtime,
		),
		List: appcore.NewQueryExecutor[rdvapp.GetRendezVousJeuneQuery, []rendezvous.RendezVous](
			"GetRendezVousJeune",
			rdvapp.NewGetRendezVousJeuneHandler(repos.RendezVous, auth.jeune, auth.agence),
			runtime,
		),
		Detail: appcore.NewQueryExecutor[rdvapp.GetDetailRendezVousQuery, rendezvous.RendezVous](
			"GetDetailRendezVous",
			rdvapp.NewGetDetailRendezVousHandler(repos.RendezVous, auth.rendezVous, auth.agence),
			runtime,
		),
		AnimationsCollectives: appcore.NewQueryExecutor[rdvapp.GetAnimationsCollectivesQuery, []rendezvous.RendezVous](
			"GetAnimationsCollectives",
			rdvapp.NewGetAnimationsCollectivesHandler(repos.RendezVous, auth.agence),
			runtime,
		),
	})
}

func buildListeHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.ListeDeDiffusionHandler {
	return httphandler.NewListeDeDiffusionHandler(httphandler.ListeDeDiffusionExecutors{
		Create: appcore.NewCommandExecutor[listeapp.CreateListeCommand, listediffusion.ListeDeDiffusion, string](
			"CreateListeDeDiffusion",
			listeapp.NewCreateListeHandler(repos.Listes, repos.Jeunes, auth.conseiller, evenements),
			runtime,
		),
		Update: appcore.NewCommandExecutor[listeapp.UpdateListeCommand, listediffusion.ListeDeDiffusion, appcore.Unit](
			"UpdateListeDeDiffusion",
			listeapp.NewUpdateListeHandler(repos.Listes, repos.Jeunes, auth.liste, auth.conseiller, evenements),
			runtime,
		),
		Delete: appcore.NewCommandExecutor[listeapp.DeleteListeCommand, listediffusion.ListeDeDiffusion, appcore.Unit](
			"DeleteListeDeDiffusion",
			listeapp.NewDeleteListeHandler(repos.Listes, auth.liste, evenements),
			runtime,
		),
		List: appcore.NewQueryExecutor[listeapp.GetListesDeDiffusionQuery, []listediffusion.ListeDeDiffusion](
			"GetListesDeDiffusion",
			listeapp.NewGetListesDeDiffusionHandler(repos.Listes, auth.conseiller),
			runtime,
		),
	})
}

func buildFichierHandler(
	repos Repositories,
	auth authorizers,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.FichierHandler {
	return httphandler.NewFichierHandler(httphandler.FichierExecutors{
		Televerser: appcore.NewCommandExecutor[fichierapp.TeleverserFichierCommand, fichier.Metadonnees, fichier.Metadonnees](
			"TeleverserFichier",
			fichierapp.NewTeleverserFichierHandler(repos.Fichiers, repos.Listes, auth.fichier, evenements),
			runtime,
		),
		Supprimer: appcore.NewCommandExecutor[fichierapp.SupprimerFichierCommand, fichier.Metadonnees, appcore.Unit](
			"SupprimerFichier",
			fichierapp.NewSupprimerFichierHandler(repos.Fichiers, auth.fichier, evenements),
			runtime,
		),
		Telecharger: appcore.NewQueryExecutor[fichierapp.TelechargerFichierQuery, fichier.Metadonnees](
			"TelechargerFichier",
			fichierapp.NewTelechargerFichierHandler(repos.Fichiers, auth.fichier, evenements),
			runtime,
		),
	})
}

func buildSupportHandler(repos Repositories, auth authorizers, runtime *appcore.Runtime) *httphandler.SupportHandler {
	return httphandler.NewSupportHandler(httphandler.SupportExecutors{
		ChangerAgence: appcore.NewCommandExecutor[
			supportapp.UpdateAgenceConseillerCommand, conseiller.Conseiller, supportapp.ChangementAgence,
		](
			"UpdateAgenceConseiller",
			supportapp.NewUpdateAgenceConseillerHandler(repos.Conseillers, repos.Agences, auth.support),
			runtime,
		),
		ConseillersAgence: appcore.NewQueryExecutor[supportapp.GetConseillersDeLAgenceQuery, []conseiller.Conseiller](
			"GetConseillersDeLAgence",
			supportapp.NewGetConseillersDeLAgenceHandler(repos.Conseillers, auth.support, auth.conseiller),
			runtime,
		),
	})
}

func buildMiloHandler(
	repos Repositories,
	auth authorizers,
	client miloapp.SessionsClient,
	evenements *evenement.Service,
	runtime *appcore.Runtime,
) *httphandler.MiloHandler {
	return httphandler.NewMiloHandler(httphandler.MiloExecutors{
		Sessions: appcore.NewQueryExecutor[miloapp.GetSessionsConseillerMiloQuery, []milodomain.Session](
			"GetSessionsConseillerMilo",
			miloapp.NewGetSessionsConseillerMiloHandler(repos.Conseillers, client, auth.conseiller, evenements),
			runtime,
		),
		Jeunes: appcore.NewQueryExecutor[miloapp.GetJeunesByStructureMiloQuery, []jeune.Jeune](
			"GetJeunesByStructureMilo",
			miloapp.NewGetJeunesByStructureMiloHandler(repos.Jeunes, auth.structure),
			runtime,
		),
	})
}
