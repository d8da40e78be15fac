package recherche

import (
	"context"
	"time"
)

type Type string

const (
	TypeOffresEmploi          Type = "OFFRES_EMPLOI"
	TypeOffresAlternance      Type = "OFFRES_ALTERNANCE"
	TypeOffresImmersion       Type = "OFFRES_IMMERSION"
	TypeOffresServicesCivique Type = "OFFRES_SERVICES_CIVIQUE"
)

var Types = []Type{TypeOffresEmploi, TypeOffresAlternance, TypeOffresImmersion, TypeOffresServicesCivique}

// Etat is the outcome of the last background run of the search.
type Etat string

const (
	EtatSucces Etat = "SUCCES"
	EtatEchec  Etat = "ECHEC"
)

// Recherche is a saved search of a jeune, replayed to notify new offers.
type Recherche struct {
	ID                    string
	IDJeune               string
	Titre                 string
	Type                  Type
	Metier                string
	Localisation          string
	Criteres              map[string]any
	DateCreation          time.Time
	DateDerniereRecherche time.Time
	Etat                  Etat
}

// Repository persists recherches. Get returns nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, id string) (*Recherche, error)
	FindByJeune(ctx context.Context, idJeune string) ([]Recherche, error)
	ExisteRecherche(ctx context.Context, idJeune, idRecherche string) (bool, error)
	Save(ctx context.Context, recherche *Recherche) error
	Delete(ctx context.Context, id string) error
}
