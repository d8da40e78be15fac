package action_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/passemploi/internal/domain/action"
	"github.com/lllypuk/passemploi/internal/domain/errs"
	"github.com/lllypuk/passemploi/internal/domain/jeune"
)

var now = time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)

func unJeune() *jeune.Jeune {
	return &jeune.Jeune{
		ID:     "J1",
		Prenom: "John",
		Nom:    "Doe",
		Conseiller: &jeune.ConseillerDuJeune{
			ID:     "C1",
			Prenom: "Nils",
			Nom:    "Tavernier",
		},
	}
}

func TestNew(t *testing.T) {
	t.Run("created by the jeune", func(t *testing.T) {
		a, err := action.New(action.NouvelleAction{
			ID:           "A1",
			Contenu:      "Faire un CV",
			TypeCreateur: action.TypeCreateurJeune,
			DateEcheance: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		}, unJeune(), now)

		require.Nil(t, err)
		assert.Equal(t, action.StatutPasCommencee, a.Statut)
		assert.Equal(t, action.Createur{ID: "J1", Type: action.TypeCreateurJeune, Nom: "Doe", Prenom: "John"}, a.Createur)
		assert.Equal(t, time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC), a.DateEcheance)
		assert.True(t, a.Rappel)
		assert.Nil(t, a.DateFinReelle)
	})

	t.Run("created by the conseiller as done", func(t *testing.T) {
		rappel := false
		a, err := action.New(action.NouvelleAction{
			ID:           "A1",
			Contenu:      "Faire un CV",
			Statut:       action.StatutTerminee,
			TypeCreateur: action.TypeCreateurConseiller,
			Rappel:       &rappel,
		}, unJeune(), now)

		require.Nil(t, err)
		assert.Equal(t, "C1", a.Createur.ID)
		assert.False(t, a.Rappel)
		require.NotNil(t, a.DateFinReelle)
		assert.Equal(t, now, *a.DateFinReelle)
	})

	t.Run("conseiller creation for a jeune without conseiller", func(t *testing.T) {
		j := unJeune()
		j.Conseiller = nil

		_, err := action.New(action.NouvelleAction{TypeCreateur: action.TypeCreateurConseiller}, j, now)

		require.NotNil(t, err)
		assert.Equal(t, errs.CodeNonTraitable, err.Code)
		assert.Equal(t, errs.ReasonBeneficiaireSansConseiller, err.Reason)
	})
}

func TestChangerStatut(t *testing.T) {
	a := &action.Action{ID: "A1", Statut: action.StatutEnCours}

	require.Nil(t, a.ChangerStatut(action.StatutTerminee, now))
	require.NotNil(t, a.DateFinReelle)

	later := now.Add(time.Hour)
	require.Nil(t, a.ChangerStatut(action.StatutEnCours, later))
	assert.Nil(t, a.DateFinReelle)
	assert.Equal(t, later, a.DateDerniereActualisation)

	a.Qualification = &action.Qualification{Code: action.QualificationEmploi, Heures: 3}
	err := a.ChangerStatut(action.StatutAnnulee, later)
	require.NotNil(t, err)
	assert.Equal(t, errs.ReasonActionDejaQualifiee, err.Reason)
	assert.Equal(t, action.StatutEnCours, a.Statut)
}

func TestDoitPlanifierUnRappel(t *testing.T) {
	tests := []struct {
		name     string
		statut   action.Statut
		rappel   bool
		echeance time.Time
		want     bool
	}{
		{"due in five days", action.StatutEnCours, true, now.AddDate(0, 0, 5), true},
		{"due in three days", action.StatutEnCours, true, now.AddDate(0, 0, 3), false},
		{"reminder disabled", action.StatutEnCours, false, now.AddDate(0, 0, 5), false},
		{"already done", action.StatutTerminee, true, now.AddDate(0, 0, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &action.Action{Statut: tt.statut, Rappel: tt.rappel, DateEcheance: tt.echeance}
			assert.Equal(t, tt.want, a.DoitPlanifierUnRappel(now))
		})
	}
}
