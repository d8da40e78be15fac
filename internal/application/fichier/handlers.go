package fichier

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lllypuk/passemploi/internal/application/appcore"
	"github.com/lllypuk/passemploi/internal/domain/authentification"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/evenement"
	fichierdomain "github.com/lllypuk/passemploi/internal/domain/fichier"
	"github.com/lllypuk/passemploi/internal/domain/listediffusion"
)

// TeleverserFichierCommand records the metadata of an uploaded file. The
// recipients are the union of IDsJeunes and the members of IDsListes.
type TeleverserFichierCommand struct {
	IDsJeunes []string
	IDsListes []string
	Nom       string
	MimeType  string
	Taille    int64
}

type SupprimerFichierCommand struct {
	IDFichier string
}

type TelechargerFichierQuery struct {
	IDFichier string
}

type Authorizer interface {
	AutoriserTelechargementPourFichier(
		ctx context.Context,
		idFichier string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
	AutoriserSuppressionDuFichier(
		ctx context.Context,
		idFichier string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
	AutoriserTeleversementDuFichier(
		ctx context.Context,
		idsJeunes, idsListes []string,
		utilisateur authentification.Utilisateur,
	) (appcore.Result[appcore.Unit], error)
}

type ListeGetter interface {
	Get(ctx context.Context, id string) (*listediffusion.ListeDeDiffusion, error)
}

type TeleverserFichierHandler struct {
	appcore.NoAggregate[TeleverserFichierCommand, fichierdomain.Metadonnees]

	fichiers   fichierdomain.Repository
	listes     ListeGetter
	authorizer Authorizer
	evenements *evenement.Service
}

func NewTeleverserFichierHandler(
	fichiers fichierdomain.Repository,
	listes ListeGetter,
	authorizer Authorizer,
	evenements *evenement.Service,
) *TeleverserFichierHandler {
	return &TeleverserFichierHandler{fichiers: fichiers, listes: listes, authorizer: authorizer, evenements: evenements}
}

func (h *TeleverserFichierHandler) Authorize(
	ctx context.Context,
	cmd TeleverserFichierCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserTeleversementDuFichier(ctx, cmd.IDsJeunes, cmd.IDsListes, u)
}

func (h *TeleverserFichierHandler) Handle(
	ctx context.Context,
	cmd TeleverserFichierCommand,
	u authentification.Utilisateur,
	_ *fichierdomain.Metadonnees,
) (appcore.Result[fichierdomain.Metadonnees], error) {
	if invalid := appcore.FirstInvalid(
		appcore.ValidateRequired("nom", cmd.Nom),
		appcore.ValidateEnum("mimeType", cmd.MimeType, fichierdomain.MimeTypesAutorises),
		validerTaille(cmd.Taille),
	); invalid != nil {
		return appcore.Failure[fichierdomain.Metadonnees](invalid), nil
	}

	destinataires := slices.Clone(cmd.IDsJeunes)
	for _, idListe := range cmd.IDsListes {
		l, err := h.listes.Get(ctx, idListe)
		if err != nil {
			return appcore.Result[fichierdomain.Metadonnees]{}, fmt.Errorf("get liste %s: %w", idListe, err)
		}
		if l == nil {
			return appcore.Failure[fichierdomain.Metadonnees](errs.NotFound("ListeDeDiffusion", idListe)), nil
		}
		destinataires = append(destinataires, l.IDsBeneficiaires()...)
	}
	slices.Sort(destinataires)

	m := fichierdomain.Metadonnees{
		ID:                   uuid.NewString(),
		IDsJeunes:            slices.Compact(destinataires),
		IDsListesDeDiffusion: cmd.IDsListes,
		IDCreateur:           u.ID,
		TypeCreateur:         u.Type,
		Nom:                  cmd.Nom,
		MimeType:             cmd.MimeType,
		Taille:               cmd.Taille,
		DateCreation:         time.Now(),
	}
	if err := h.fichiers.Save(ctx, &m); err != nil {
		return appcore.Result[fichierdomain.Metadonnees]{}, fmt.Errorf("save fichier: %w", err)
	}
	return appcore.Success(m), nil
}

func (h *TeleverserFichierHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ TeleverserFichierCommand,
	_ *fichierdomain.Metadonnees,
) error {
	return h.evenements.Creer(ctx, evenement.CodePieceJointeConseillerEnvoi, u)
}

func validerTaille(taille int64) *errs.DomainError {
	if taille <= 0 || taille > fichierdomain.TailleMax {
		return errs.BadCommand(fmt.Sprintf("La taille du fichier doit être comprise entre 1 et %d octets", fichierdomain.TailleMax))
	}
	return nil
}

// SupprimerFichierHandler soft-deletes a file; only its creator may do so.
type SupprimerFichierHandler struct {
	fichiers   fichierdomain.Repository
	authorizer Authorizer
	evenements *evenement.Service
	now        func() time.Time
}

func NewSupprimerFichierHandler(
	fichiers fichierdomain.Repository,
	authorizer Authorizer,
	evenements *evenement.Service,
) *SupprimerFichierHandler {
	return &SupprimerFichierHandler{fichiers: fichiers, authorizer: authorizer, evenements: evenements, now: time.Now}
}

func (h *SupprimerFichierHandler) Authorize(
	ctx context.Context,
	cmd SupprimerFichierCommand,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserSuppressionDuFichier(ctx, cmd.IDFichier, u)
}

func (h *SupprimerFichierHandler) GetAggregate(
	ctx context.Context,
	cmd SupprimerFichierCommand,
) (*fichierdomain.Metadonnees, error) {
	return h.fichiers.Get(ctx, cmd.IDFichier)
}

func (h *SupprimerFichierHandler) Handle(
	ctx context.Context,
	cmd SupprimerFichierCommand,
	_ authentification.Utilisateur,
	m *fichierdomain.Metadonnees,
) (appcore.Result[appcore.Unit], error) {
	if m == nil {
		return appcore.Failure[appcore.Unit](errs.NotFound("Fichier", cmd.IDFichier)), nil
	}
	if err := h.fichiers.SoftDelete(ctx, m.ID, h.now()); err != nil {
		return appcore.Result[appcore.Unit]{}, fmt.Errorf("soft delete fichier: %w", err)
	}
	return appcore.EmptySuccess(), nil
}

func (h *SupprimerFichierHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ SupprimerFichierCommand,
	_ *fichierdomain.Metadonnees,
) error {
	return h.evenements.Creer(ctx, evenement.CodePieceJointeSupprimee, u)
}

// TelechargerFichierHandler returns the metadata needed to stream a file.
type TelechargerFichierHandler struct {
	fichiers   fichierdomain.Repository
	authorizer Authorizer
	evenements *evenement.Service
}

func NewTelechargerFichierHandler(
	fichiers fichierdomain.Repository,
	authorizer Authorizer,
	evenements *evenement.Service,
) *TelechargerFichierHandler {
	return &TelechargerFichierHandler{fichiers: fichiers, authorizer: authorizer, evenements: evenements}
}

func (h *TelechargerFichierHandler) Authorize(
	ctx context.Context,
	q TelechargerFichierQuery,
	u authentification.Utilisateur,
) (appcore.Result[appcore.Unit], error) {
	return h.authorizer.AutoriserTelechargementPourFichier(ctx, q.IDFichier, u)
}

func (h *TelechargerFichierHandler) Handle(
	ctx context.Context,
	q TelechargerFichierQuery,
	_ authentification.Utilisateur,
) (appcore.Result[fichierdomain.Metadonnees], error) {
	m, err := h.fichiers.Get(ctx, q.IDFichier)
	if err != nil {
		return appcore.Result[fichierdomain.Metadonnees]{}, fmt.Errorf("get fichier: %w", err)
	}
	if m == nil {
		return appcore.Failure[fichierdomain.Metadonnees](errs.NotFound("Fichier", q.IDFichier)), nil
	}
	return appcore.Success(*m), nil
}

// Monitor records downloads made by jeunes.
func (h *TelechargerFichierHandler) Monitor(
	ctx context.Context,
	u authentification.Utilisateur,
	_ TelechargerFichierQuery,
) error {
	if !authentification.EstJeune(u.Type) {
		return nil
	}
	return h.evenements.Creer(ctx, evenement.CodePieceJointeTelechargee, u)
}
