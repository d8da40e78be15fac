package favori

import (
	"context"
	"time"
)

// TypeOffre is the kind of offer a favori points to.
type TypeOffre string

const (
	TypeOffreEmploi         TypeOffre = "OFFRE_EMPLOI"
	TypeOffreAlternance     TypeOffre = "OFFRE_ALTERNANCE"
	TypeOffreImmersion      TypeOffre = "OFFRE_IMMERSION"
	TypeOffreServiceCivique TypeOffre = "OFFRE_SERVICE_CIVIQUE"
)

var TypesOffre = []TypeOffre{
	TypeOffreEmploi,
	TypeOffreAlternance,
	TypeOffreImmersion,
	TypeOffreServiceCivique,
}

// Favori is an offer bookmarked by a beneficiary.
type Favori struct {
	IDBeneficiaire  string
	IDOffre         string
	Type            TypeOffre
	Titre           string
	Organisation    string
	Localisation    string
	DateCreation    time.Time
	DateCandidature *time.Time
}

// Candidater records that the beneficiary applied to the offer. Applying twice keeps the first date.
func (f *Favori) Candidater(now time.Time) {
	if f.DateCandidature == nil {
		f.DateCandidature = &now
	}
}

// Metadonnees counts the favoris of a beneficiary by type.
type Metadonnees struct {
	Total        int
	ParType      map[TypeOffre]int
	Candidatures int
}

// CompterMetadonnees summarises favoris.
func CompterMetadonnees(favoris []Favori) Metadonnees {
	m := Metadonnees{ParType: make(map[TypeOffre]int, len(TypesOffre))}
	for _, t := range TypesOffre {
		m.ParType[t] = 0
	}
	for _, f := range favoris {
		m.Total++
		m.ParType[f.Type]++
		if f.DateCandidature != nil {
			m.Candidatures++
		}
	}
	return m
}

// Repository persists favoris keyed by (beneficiary, offer). Get returns nil, nil when absent.
type Repository interface {
	Get(ctx context.Context, idBeneficiaire, idOffre string) (*Favori, error)
	FindByBeneficiaire(ctx context.Context, idBeneficiaire string) ([]Favori, error)
	Save(ctx context.Context, favori *Favori) error
	Delete(ctx context.Context, idBeneficiaire, idOffre string) error
}
