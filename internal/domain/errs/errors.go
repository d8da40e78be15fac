package errs

import (
	"errors"
	"fmt"
)

// Code is the stable machine-readable identifier of a DomainError.
type Code string

const (
	CodeNotFound      Code = "NON_TROUVE"
	CodeForbidden     Code = "DROITS_INSUFFISANTS"
	CodeBadCommand    Code = "MAUVAISE_COMMANDE"
	CodeNonTraitable  Code = "NON_TRAITABLE"
	CodeUpstream      Code = "ERREUR_HTTP"
	CodeAlreadyExists Code = "EXISTE_DEJA"
)

// NonTraitableReason qualifies a NON_TRAITABLE failure.
type NonTraitableReason string

const (
	ReasonTypeUtilisateurNonTraitable      NonTraitableReason = "TYPE_UTILISATEUR_NON_TRAITABLE"
	ReasonStructureUtilisateurNonTraitable NonTraitableReason = "STRUCTURE_UTILISATEUR_NON_TRAITABLE"
	ReasonUtilisateurInexistant            NonTraitableReason = "UTILISATEUR_INEXISTANT"
	ReasonBeneficiaireSansConseiller       NonTraitableReason = "BENEFICIAIRE_SANS_CONSEILLER"
	ReasonActionDejaQualifiee              NonTraitableReason = "ACTION_DEJA_QUALIFIEE"
	ReasonRendezVousClos                   NonTraitableReason = "RENDEZ_VOUS_CLOS"
)

const droitsInsuffisantsMessage = "Vous n'avez pas le droit d'effectuer cette action"

// DomainError is an expected failure carried by a Result.
type DomainError struct {
	Code    Code
	Message string

	// Reason is set for NON_TRAITABLE.
	Reason NonTraitableReason

	// StatusCode and Body are set for ERREUR_HTTP.
	StatusCode int
	Body       string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any DomainError carrying the same code, so sentinels work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Sentinels usable with errors.Is.
var (
	ErrNotFound      = &DomainError{Code: CodeNotFound, Message: "resource not found"}
	ErrForbidden     = &DomainError{Code: CodeForbidden, Message: droitsInsuffisantsMessage}
	ErrBadCommand    = &DomainError{Code: CodeBadCommand, Message: "invalid command"}
	ErrNonTraitable  = &DomainError{Code: CodeNonTraitable, Message: "non traitable"}
	ErrUpstream      = &DomainError{Code: CodeUpstream, Message: "upstream error"}
	ErrAlreadyExists = &DomainError{Code: CodeAlreadyExists, Message: "resource already exists"}
)

// NotFound builds a NON_TROUVE error, e.g. NotFound("Favori", "O1").
func NotFound(entity, critere string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s non trouvé(e)", entity, critere),
	}
}

// Forbidden builds a DROITS_INSUFFISANTS error with the default message unless one is given.
func Forbidden(message ...string) *DomainError {
	msg := droitsInsuffisantsMessage
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return &DomainError{Code: CodeForbidden, Message: msg}
}

func BadCommand(message string) *DomainError {
	return &DomainError{Code: CodeBadCommand, Message: message}
}

// NonTraitable builds a NON_TRAITABLE error; reason may be empty.
func NonTraitable(entity, id string, reason NonTraitableReason) *DomainError {
	return &DomainError{
		Code:    CodeNonTraitable,
		Message: fmt.Sprintf("%s %s non traitable", entity, id),
		Reason:  reason,
	}
}

// Upstream wraps a partner answer verbatim.
func Upstream(body string, statusCode int) *DomainError {
	return &DomainError{
		Code:       CodeUpstream,
		Message:    body,
		StatusCode: statusCode,
		Body:       body,
	}
}

func AlreadyExists(message string) *DomainError {
	return &DomainError{Code: CodeAlreadyExists, Message: message}
}

// FavoriExisteDeja is the EXISTE_DEJA failure raised when an offer is bookmarked twice.
func FavoriExisteDeja(idJeune, idOffre string) *DomainError {
	return AlreadyExists(fmt.Sprintf("L'offre %s est déjà dans les favoris de %s", idOffre, idJeune))
}
