package fixtures

import (
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/core"
)

// UnUtilisateurJeune returns the authenticated jeune J1 of the MILO structure.
func UnUtilisateurJeune(opts ...func(*authentification.Utilisateur)) authentification.Utilisateur {
	u := authentification.Utilisateur{
		ID:                 "J1",
		IDAuthentification: "auth-J1",
		Type:               authentification.TypeJeune,
		Structure:          core.StructureMilo,
		Email:              "john.doe@example.com",
		Nom:                "Doe",
		Prenom:             "John",
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// UnUtilisateurConseiller returns the authenticated conseiller C1 of the MILO structure.
func UnUtilisateurConseiller(opts ...func(*authentification.Utilisateur)) authentification.Utilisateur {
	u := authentification.Utilisateur{
		ID:                 "C1",
		IDAuthentification: "auth-C1",
		Type:               authentification.TypeConseiller,
		Structure:          core.StructureMilo,
		Email:              "nils.tavernier@example.com",
		Nom:                "Tavernier",
		Prenom:             "Nils",
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func UnUtilisateurSupport() authentification.Utilisateur {
	return authentification.Utilisateur{
		ID:        "S1",
		Type:      authentification.TypeSupport,
		Structure: core.StructurePassEmploi,
	}
}

// WithID overrides the utilisateur id.
func WithID(id string) func(*authentification.Utilisateur) {
	return func(u *authentification.Utilisateur) { u.ID = id }
}

func WithStructure(s core.Structure) func(*authentification.Utilisateur) {
	return func(u *authentification.Utilisateur) { u.Structure = s }
}

func WithRoles(roles ...authentification.Role) func(*authentification.Utilisateur) {
	return func(u *authentification.Utilisateur) { u.Roles = roles }
}
