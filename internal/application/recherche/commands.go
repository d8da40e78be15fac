package recherche

import (
	recherchedomain "github.com/lllypuk/passemploi/internal/domain/recherche"
)

type CreateRechercheCommand struct {
	IDJeune      string
	Titre        string
	Type         recherchedomain.Type
	Metier       string
	Localisation string
	Criteres     map[string]any
}

type DeleteRechercheCommand struct {
	IDJeune     string
	IDRecherche string
}

type GetRecherchesJeuneQuery struct {
	IDJeune string
}
