package httphandler

import (
	"time"

	actionapp "github.com/lllypuk/passemploi/internal/application/action"
	favoriapp "github.com/lllypuk/passemploi/internal/application/favori"
	supportapp "github.com/lllypuk/passemploi/internal/application/support"
	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/conseiller"
	"github.com/lllypuk/passemploi/internal/domain/favori"
	"github.com/lllypuk/passemploi/internal/domain/fichier"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
	"github.com/lllypuk/passemploi/internal/domain/milo"
	"github.com/lllypuk/passemploi/internal/domain/recherche"
	"github.com/lllypuk/passemploi/internal/domain/rendezvous"
)

// FavoriResponse represents a favori in API responses.
type FavoriResponse struct {
	IDOffre         string     `json:"idOffre"`
	Type            string     `json:"type"`
	Titre           string     `json:"titre"`
	Organisation    string     `json:"organisation,omitempty"`
	Localisation    string     `json:"localisation,omitempty"`
	DateCreation    time.Time  `json:"dateCreation"`
	DateCandidature *time.Time `json:"dateCandidature,omitempty"`
}

func toFavoriResponse(f favori.Favori) any {
	return newFavoriResponse(f)
}

func newFavoriResponse(f favori.Favori) FavoriResponse {
	return FavoriResponse{
		IDOffre:         f.IDOffre,
		Type:            string(f.Type),
		Titre:           f.Titre,
		Organisation:    f.Organisation,
		Localisation:    f.Localisation,
		DateCreation:    f.DateCreation,
		DateCandidature: f.DateCandidature,
	}
}

func toFavorisResponse(favoris []favori.Favori) any {
	resp := make([]FavoriResponse, 0, len(favoris))
	for _, f := range favoris {
		resp = append(resp, newFavoriResponse(f))
	}
	return resp
}

// MetadonneesFavorisResponse counts the favoris and saved searches of a jeune.
type MetadonneesFavorisResponse struct {
	AutoriseLePartage bool `json:"autoriseLePartage"`
	Favoris           struct {
		Total        int            `json:"total"`
		ParType      map[string]int `json:"parType"`
		Candidatures int            `json:"candidatures"`
	} `json:"favoris"`
	Recherches struct {
		Total   int            `json:"total"`
		ParType map[string]int `json:"parType"`
	} `json:"recherches"`
}

func toMetadonneesFavorisResponse(m favoriapp.MetadonneesFavoris) any {
	resp := MetadonneesFavorisResponse{AutoriseLePartage: m.AutoriseLePartage}
	resp.Favoris.Total = m.Offres.Total
	resp.Favoris.Candidatures = m.Offres.Candidatures
	resp.Favoris.ParType = make(map[string]int, len(m.Offres.ParType))
	for t, n := range m.Offres.ParType {
		resp.Favoris.ParType[string(t)] = n
	}
	resp.Recherches.Total = m.Recherches.Total
	resp.Recherches.ParType = make(map[string]int, len(m.Recherches.ParType))
	for t, n := range m.Recherches.ParType {
		resp.Recherches.ParType[string(t)] = n
	}
	return resp
}

// ActionResponse represents an action in API responses.
type ActionResponse struct {
	ID                        string     `json:"id"`
	Statut                    string     `json:"status"`
	Contenu                   string     `json:"content"`
	Description               string     `json:"comment,omitempty"`
	DateCreation              time.Time  `json:"creationDate"`
	DateDerniereActualisation time.Time  `json:"lastUpdate"`
	DateEcheance              time.Time  `json:"dateEcheance"`
	DateFinReelle             *time.Time `json:"dateFinReelle,omitempty"`
	IDJeune                   string     `json:"idJeune"`
	Createur                  struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		Nom    string `json:"nom"`
		Prenom string `json:"prenom"`
	} `json:"creator"`
	Qualification *QualificationResponse `json:"qualification,omitempty"`
}

type QualificationResponse struct {
	Code                     string `json:"code"`
	Heures                   int    `json:"heures"`
	CommentaireQualification string `json:"commentaireQualification,omitempty"`
}

// ActionsJeuneResponse is one page of actions with its counters.
type ActionsJeuneResponse struct {
	Actions     []ActionResponse `json:"actions"`
	Metadonnees struct {
		NombreTotal          int `json:"nombreTotal"`
		NombreFiltrees       int `json:"nombreFiltrees"`
		NombreActionsParPage int `json:"nombreActionsParPage"`
	} `json:"metadonnees"`
}

func newActionResponse(a action.Action) ActionResponse {
	resp := ActionResponse{
		ID:                        a.ID,
		Statut:                    string(a.Statut),
		Contenu:                   a.Contenu,
		Description:               a.Description,
		DateCreation:              a.DateCreation,
		DateDerniereActualisation: a.DateDerniereActualisation,
		DateEcheance:              a.DateEcheance,
		DateFinReelle:             a.DateFinReelle,
		IDJeune:                   a.IDJeune,
	}
	resp.Createur.ID = a.Createur.ID
	resp.Createur.Type = string(a.Createur.Type)
	resp.Createur.Nom = a.Createur.Nom
	resp.Createur.Prenom = a.Createur.Prenom
	if a.Qualification != nil {
		resp.Qualification = &QualificationResponse{
			Code:                     string(a.Qualification.Code),
			Heures:                   a.Qualification.Heures,
			CommentaireQualification: a.Qualification.CommentaireQualification,
		}
	}
	return resp
}

func toActionsJeuneResponse(page actionapp.ActionsJeune) any {
	resp := ActionsJeuneResponse{Actions: make([]ActionResponse, 0, len(page.Actions))}
	for _, a := range page.Actions {
		resp.Actions = append(resp.Actions, newActionResponse(a))
	}
	resp.Metadonnees.NombreTotal = page.Metadonnees.NombreTotal
	resp.Metadonnees.NombreFiltrees = page.Metadonnees.NombreFiltrees
	resp.Metadonnees.NombreActionsParPage = page.Metadonnees.NombreActionsParPage
	return resp
}

// RechercheResponse represents a saved search in API responses.
type RechercheResponse struct {
	ID                    string         `json:"id"`
	Titre                 string         `json:"titre"`
	Type                  string         `json:"type"`
	Metier                string         `json:"metier,omitempty"`
	Localisation          string         `json:"localisation,omitempty"`
	Criteres              map[string]any `json:"criteres,omitempty"`
	DateCreation          time.Time      `json:"dateCreation"`
	DateDerniereRecherche time.Time      `json:"dateDerniereRecherche"`
	Etat                  string         `json:"etat"`
}

func newRechercheResponse(r recherche.Recherche) RechercheResponse {
	return RechercheResponse{
		ID:                    r.ID,
		Titre:                 r.Titre,
		Type:                  string(r.Type),
		Metier:                r.Metier,
		Localisation:          r.Localisation,
		Criteres:              r.Criteres,
		DateCreation:          r.DateCreation,
		DateDerniereRecherche: r.DateDerniereRecherche,
		Etat:                  string(r.Etat),
	}
}

func toRechercheResponse(r recherche.Recherche) any {
	return newRechercheResponse(r)
}

func toRecherchesResponse(recherches []recherche.Recherche) any {
	resp := make([]RechercheResponse, 0, len(recherches))
	for _, r := range recherches {
		resp = append(resp, newRechercheResponse(r))
	}
	return resp
}

// RendezVousResponse represents a rendez-vous in API responses.
type RendezVousResponse struct {
	ID                 string                      `json:"id"`
	Titre              string                      `json:"title"`
	SousTitre          string                      `json:"subtitle,omitempty"`
	Commentaire        string                      `json:"comment,omitempty"`
	Modalite           string                      `json:"modality,omitempty"`
	Date               time.Time                   `json:"date"`
	Duree              int                         `json:"duration"`
	Type               string                      `json:"type"`
	Precision          string                      `json:"precision,omitempty"`
	Adresse            string                      `json:"adresse,omitempty"`
	Organisme          string                      `json:"organisme,omitempty"`
	PresenceConseiller bool                        `json:"presenceConseiller"`
	Invitation         bool                        `json:"invitation"`
	IDAgence           string                      `json:"idAgence,omitempty"`
	EstClos            bool                        `json:"estClos"`
	Jeunes             []JeuneDuRendezVousResponse `json:"jeunes"`
}

type JeuneDuRendezVousResponse struct {
	ID     string `json:"id"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
}

func newRendezVousResponse(r rendezvous.RendezVous) RendezVousResponse {
	resp := RendezVousResponse{
		ID:                 r.ID,
		Titre:              r.Titre,
		SousTitre:          r.SousTitre,
		Commentaire:        r.Commentaire,
		Modalite:           r.Modalite,
		Date:               r.Date,
		Duree:              r.Duree,
		Type:               string(r.Type),
		Precision:          r.Precision,
		Adresse:            r.Adresse,
		Organisme:          r.Organisme,
		PresenceConseiller: r.PresenceConseiller,
		Invitation:         r.Invitation,
		IDAgence:           r.IDAgence,
		EstClos:            r.DateCloture != nil,
		Jeunes:             make([]JeuneDuRendezVousResponse, 0, len(r.Jeunes)),
	}
	for _, j := range r.Jeunes {
		resp.Jeunes = append(resp.Jeunes, JeuneDuRendezVousResponse{ID: j.ID, Prenom: j.Prenom, Nom: j.Nom})
	}
	return resp
}

func toRendezVousListResponse(rdvs []rendezvous.RendezVous) any {
	resp := make([]RendezVousResponse, 0, len(rdvs))
	for _, r := range rdvs {
		resp = append(resp, newRendezVousResponse(r))
	}
	return resp
}

// ListeDeDiffusionResponse represents a liste de diffusion in API responses.
type ListeDeDiffusionResponse struct {
	ID             string                 `json:"id"`
	Titre          string                 `json:"titre"`
	DateDeCreation time.Time              `json:"dateDeCreation"`
	Beneficiaires  []BeneficiaireResponse `json:"beneficiaires"`
}

type BeneficiaireResponse struct {
	ID                    string    `json:"id"`
	DateAjout             time.Time `json:"dateAjout"`
	EstDansLePortefeuille bool      `json:"estDansLePortefeuille"`
}

func toListesResponse(listes []listediffusion.ListeDeDiffusion) any {
	resp := make([]ListeDeDiffusionResponse, 0, len(listes))
	for _, l := range listes {
		item := ListeDeDiffusionResponse{
			ID:             l.ID,
			Titre:          l.Titre,
			DateDeCreation: l.DateDeCreation,
			Beneficiaires:  make([]BeneficiaireResponse, 0, len(l.Beneficiaires)),
		}
		for _, b := range l.Beneficiaires {
			item.Beneficiaires = append(item.Beneficiaires, BeneficiaireResponse{
				ID:                    b.ID,
				DateAjout:             b.DateAjout,
				EstDansLePortefeuille: b.EstDansLePortefeuille,
			})
		}
		resp = append(resp, item)
	}
	return resp
}

// FichierResponse represents the metadata of a shared file.
type FichierResponse struct {
	ID           string    `json:"id"`
	Nom          string    `json:"nom"`
	MimeType     string    `json:"mimeType"`
	Taille       int64     `json:"taille"`
	IDCreateur   string    `json:"idCreateur"`
	TypeCreateur string    `json:"typeCreateur"`
	IDsJeunes    []string  `json:"idsJeunes"`
	DateCreation time.Time `json:"dateCreation"`
}

func toFichierResponse(m fichier.Metadonnees) any {
	return FichierResponse{
		ID:           m.ID,
		Nom:          m.Nom,
		MimeType:     m.MimeType,
		Taille:       m.Taille,
		IDCreateur:   m.IDCreateur,
		TypeCreateur: string(m.TypeCreateur),
		IDsJeunes:    m.IDsJeunes,
		DateCreation: m.DateCreation,
	}
}

// SessionMiloResponse represents a Milo session in API responses.
type SessionMiloResponse struct {
	ID                string    `json:"id"`
	Nom               string    `json:"nomSession"`
	NomOffre          string    `json:"nomOffre"`
	Type              string    `json:"type"`
	DateHeureDebut    time.Time `json:"dateHeureDebut"`
	DateHeureFin      time.Time `json:"dateHeureFin"`
	EstVisible        bool      `json:"estVisible"`
	NbPlacesRestantes *int      `json:"nbPlacesRestantes,omitempty"`
}

func toSessionsResponse(sessions []milo.Session) any {
	resp := make([]SessionMiloResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, SessionMiloResponse(s))
	}
	return resp
}

// JeuneResponse is the summary of a jeune.
type JeuneResponse struct {
	ID           string `json:"id"`
	Prenom       string `json:"prenom"`
	Nom          string `json:"nom"`
	IDConseiller string `json:"idConseiller,omitempty"`
}

func toJeunesResponse(jeunes []jeune.Jeune) any {
	resp := make([]JeuneResponse, 0, len(jeunes))
	for _, j := range jeunes {
		item := JeuneResponse{ID: j.ID, Prenom: j.Prenom, Nom: j.Nom}
		if j.Conseiller != nil {
			item.IDConseiller = j.Conseiller.ID
		}
		resp = append(resp, item)
	}
	return resp
}

// ConseillerResponse is the summary of a conseiller.
type ConseillerResponse struct {
	ID     string `json:"id"`
	Prenom string `json:"prenom"`
	Nom    string `json:"nom"`
	Email  string `json:"email,omitempty"`
}

func toConseillersResponse(conseillers []conseiller.Conseiller) any {
	resp := make([]ConseillerResponse, 0, len(conseillers))
	for _, c := range conseillers {
		resp = append(resp, ConseillerResponse{ID: c.ID, Prenom: c.Prenom, Nom: c.Nom, Email: c.Email})
	}
	return resp
}

// ChangementAgenceResponse reports the agence move of a conseiller.
type ChangementAgenceResponse struct {
	IDConseiller     string `json:"idConseiller"`
	IDAncienneAgence string `json:"idAncienneAgence"`
	IDNouvelleAgence string `json:"idNouvelleAgence"`
}

func toChangementAgenceResponse(ch supportapp.ChangementAgence) any {
	return ChangementAgenceResponse(ch)
}
