package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/wasteledger/internal/domain"
)

func TestSummaryLogRepository(t *testing.T) {
	repo := NewSummaryLogRepository()
	ctx := context.Background()

	log := &domain.SummaryLog{ID: "log-1", OrganisationID: "org-1", RegistrationID: "reg-1", Status: domain.SummaryLogStatusValidating}
	require.NoError(t, repo.Create(ctx, log))
	assert.ErrorIs(t, repo.Create(ctx, log), domain.ErrConflict)

	log.Status = domain.SummaryLogStatusValidated
	require.NoError(t, repo.Update(ctx, log))

	got, err := repo.GetByID(ctx, "log-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SummaryLogStatusValidated, got.Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSummaryLogNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.SummaryLog{ID: "missing"}), domain.ErrSummaryLogNotFound)
}

func TestAccreditationRepositoryScopesByOrganisation(t *testing.T) {
	repo := NewAccreditationRepository(domain.Accreditation{ID: "acc-1", OrganisationID: "org-1", Regulator: domain.RegulatorEA})
	ctx := context.Background()

	a, err := repo.FindByID(ctx, "org-1", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RegulatorEA, a.Regulator)

	_, err = repo.FindByID(ctx, "org-2", "acc-1")
	assert.ErrorIs(t, err, domain.ErrAccreditationNotFound)

	_, err = repo.FindByID(ctx, "org-1", "acc-9")
	assert.ErrorIs(t, err, domain.ErrAccreditationNotFound)
}
