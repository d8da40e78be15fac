package favori

import (
	favoridomain "github.com/lllypuk/passemploi/internal/domain/favori"
)

// AddFavoriCommand bookmarks an offer for a jeune.
type AddFavoriCommand struct {
	IDJeune         string
	IDOffre         string
	Type            favoridomain.TypeOffre
	Titre           string
	Organisation    string
	Localisation    string
	AvecCandidature bool
}

// CandidaterFavoriCommand records that the jeune applied to a bookmarked offer.
type CandidaterFavoriCommand struct {
	IDBeneficiaire string
	IDOffre        string
}

type DeleteFavoriCommand struct {
	IDJeune string
	IDOffre string
}

type GetFavorisJeuneQuery struct {
	IDJeune string
}

type GetFavoriQuery struct {
	IDJeune string
	IDOffre string
}

type GetMetadonneesFavorisQuery struct {
	IDJeune string
}
