package authorizer

import (
	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
)

// SupportAuthorizer allows the support team.
type SupportAuthorizer struct{}

func NewSupportAuthorizer() *SupportAuthorizer {
	return &SupportAuthorizer{}
}

func (a *SupportAuthorizer) AutoriserSupport(u authentification.Utilisateur) (appcore.Result[appcore.Unit], error) {
	if authentification.EstSupport(u.Type) {
		return autorise()
	}
	return refuse()
}
