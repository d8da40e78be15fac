package authentification

import (
	"slices"

	"github.com/lllypuk/passemploi/internal/domain/core"
)

// Type is the kind of authenticated caller.
type Type string

const (
	TypeJeune       Type = "JEUNE"
	TypeConseiller  Type = "CONSEILLER"
	TypeSupport     Type = "SUPPORT"
	TypeSuperviseur Type = "SUPERVISEUR"
)

// TypeBeneficiaire is accepted in tokens as an alias of TypeJeune.
const TypeBeneficiaire Type = "BENEFICIAIRE"

// Role grants extra rights to a conseiller.
type Role string

const (
	RoleSuperviseur            Role = "SUPERVISEUR"
	RoleSuperviseurResponsable Role = "SUPERVISEUR_RESPONSABLE"
)

// Utilisateur is the authenticated principal of a request.
// It is built by the authentication middleware and never mutated afterwards.
type Utilisateur struct {
	ID                 string
	IDAuthentification string
	Type               Type
	Structure          core.Structure
	Roles              []Role
	Email              string
	Nom                string
	Prenom             string
}

// ParseType normalises a token claim into a Type.
func ParseType(value string) (Type, bool) {
	switch Type(value) {
	case TypeJeune, TypeBeneficiaire:
		return TypeJeune, true
	case TypeConseiller, TypeSupport, TypeSuperviseur:
		return Type(value), true
	default:
		return "", false
	}
}

func EstJeune(t Type) bool {
	return t == TypeJeune || t == TypeBeneficiaire
}

func EstConseiller(t Type) bool {
	return t == TypeConseiller
}

func EstSupport(t Type) bool {
	return t == TypeSupport
}

// EstSuperviseur reports whether u holds one of the supervision roles.
func EstSuperviseur(u Utilisateur) bool {
	return slices.Contains(u.Roles, RoleSuperviseur) || slices.Contains(u.Roles, RoleSuperviseurResponsable)
}
