package fixtures

import (
	"time"

	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/core"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// Now is the fixed instant used by the fixtures.
var Now = time.Date(2024, time.March, 12, 10, 0, 0, 0, time.UTC)

// UnConseiller returns conseiller C1 working in agence A1.
func UnConseiller(opts ...func(*conseiller.Conseiller)) conseiller.Conseiller {
	c := conseiller.Conseiller{
		ID:                 "C1",
		IDAuthentification: "auth-C1",
		Prenom:             "Nils",
		Nom:                "Tavernier",
		Email:              "nils.tavernier@example.com",
		Structure:          core.StructureMilo,
		Agence:             &conseiller.Agence{ID: "A1", Nom: "Mission Locale Paris"},
		IDStructureMilo:    "SM1",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// UnConseillerDuJeune projects c the way it is embedded in a jeune.
func UnConseillerDuJeune(c conseiller.Conseiller) *jeune.ConseillerDuJeune {
	return &jeune.ConseillerDuJeune{
		ID:       c.ID,
		Prenom:   c.Prenom,
		Nom:      c.Nom,
		Email:    c.Email,
		IDAgence: c.IDAgence(),
	}
}

// UnJeune returns jeune J1 followed by conseiller C1.
func UnJeune(opts ...func(*jeune.Jeune)) jeune.Jeune {
	j := jeune.Jeune{
		ID:              "J1",
		Prenom:          "John",
		Nom:             "Doe",
		Email:           "john.doe@example.com",
		Structure:       core.StructureMilo,
		IsActivated:     true,
		Conseiller:      UnConseillerDuJeune(UnConseiller()),
		Preferences:     jeune.Preferences{PartageFavoris: true},
		IDStructureMilo: "SM1",
		DateCreation:    Now.AddDate(0, -6, 0),
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

// SuiviPar makes the jeune followed by c.
func SuiviPar(c conseiller.Conseiller) func(*jeune.Jeune) {
	return func(j *jeune.Jeune) { j.Conseiller = UnConseillerDuJeune(c) }
}

func UneAction(opts ...func(*action.Action)) action.Action {
	a := action.Action{
		ID:                        "AC1",
		Statut:                    action.StatutPasCommencee,
		Contenu:                   "Préparer un CV",
		Description:               "Mettre à jour les expériences",
		DateCreation:              Now,
		DateDerniereActualisation: Now,
		IDJeune:                   "J1",
		Createur:                  action.Createur{ID: "J1", Type: action.TypeCreateurJeune, Nom: "Doe", Prenom: "John"},
		DateEcheance:              Now.AddDate(0, 0, 7),
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func UnFavori(opts ...func(*favori.Favori)) favori.Favori {
	f := favori.Favori{
		IDBeneficiaire: "J1",
		IDOffre:        "O1",
		Type:           favori.TypeOffreEmploi,
		Titre:          "Développeur Go",
		Organisation:   "Pôle Numérique",
		Localisation:   "Paris",
		DateCreation:   Now.AddDate(0, 0, -3),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// UnRendezVous returns an individual rendez-vous between C1 and J1.
func UnRendezVous(opts ...func(*rendezvous.RendezVous)) rendezvous.RendezVous {
	r := rendezvous.RendezVous{
		ID:                 "RDV1",
		Titre:              "Rendez-vous conseiller",
		SousTitre:          "avec Nils",
		Modalite:           "en présentiel",
		Date:               Now.AddDate(0, 0, 2),
		Duree:              30,
		Jeunes:             []rendezvous.JeuneDuRendezVous{rendezvous.ProjeterJeune(ptr(UnJeune()))},
		Type:               rendezvous.TypeEntretienIndividuelConseiller,
		PresenceConseiller: true,
		Createur:           rendezvous.Createur{ID: "C1", Nom: "Tavernier", Prenom: "Nils"},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func UneListeDeDiffusion(opts ...func(*listediffusion.ListeDeDiffusion)) listediffusion.ListeDeDiffusion {
	l := listediffusion.ListeDeDiffusion{
		ID:             "L1",
		IDConseiller:   "C1",
		Titre:          "Jeunes en recherche d'alternance",
		DateDeCreation: Now.AddDate(0, -1, 0),
		Beneficiaires: []listediffusion.Beneficiaire{
			{ID: "J1", DateAjout: Now.AddDate(0, -1, 0), EstDansLePortefeuille: true},
		},
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// UnFichier returns a pdf uploaded by C1 for J1.
func UnFichier(opts ...func(*fichier.Metadonnees)) fichier.Metadonnees {
	f := fichier.Metadonnees{
		ID:           "F1",
		IDsJeunes:    []string{"J1"},
		IDCreateur:   "C1",
		TypeCreateur: authentification.TypeConseiller,
		Nom:          "cv.pdf",
		MimeType:     "application/pdf",
		Taille:       1024,
		DateCreation: Now,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func ptr[T any](v T) *T {
	return &v
}
