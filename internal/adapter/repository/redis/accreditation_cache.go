package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/usecase"
)

type cachedAccreditation struct {
	ID                  string    `json:"id"`
	OrganisationID      string    `json:"organisationId"`
	RegistrationID      string    `json:"registrationId"`
	AccreditationNumber string    `json:"accreditationNumber,omitempty"`
	Regulator           string    `json:"regulator"`
	ProcessingType      string    `json:"processingType"`
	Material            string    `json:"material,omitempty"`
	ValidFrom           time.Time `json:"validFrom"`
	ValidTo             time.Time `json:"validTo"`
}

// CachedAccreditationRepository serves accreditation lookups from a cache
// in front of another repository. Cache failures fall through to the
// underlying repository.
type CachedAccreditationRepository struct {
	next   usecase.AccreditationRepository
	cache  usecase.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedAccreditationRepository creates a new CachedAccreditationRepository.
func NewCachedAccreditationRepository(next usecase.AccreditationRepository, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger) *CachedAccreditationRepository {
	return &CachedAccreditationRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// FindByID returns the accreditation when it belongs to organisationID.
// Entries are cached by id alone so the ownership check runs on every call.
func (r *CachedAccreditationRepository) FindByID(ctx context.Context, organisationID, accreditationID string) (*domain.Accreditation, error) {
	key := accreditationKey(accreditationID)

	a, ok := r.lookup(ctx, key)
	if !ok {
		var err error
		a, err = r.next.FindByID(ctx, "", accreditationID)
		if err != nil {
			return nil, err
		}
		r.store(ctx, key, a)
	}

	if organisationID != "" && a.OrganisationID != organisationID {
		return nil, domain.ErrAccreditationNotFound
	}

	return a, nil
}

// Invalidate drops the cached copy of an accreditation.
func (r *CachedAccreditationRepository) Invalidate(ctx context.Context, accreditationID string) error {
	return r.cache.Delete(ctx, accreditationKey(accreditationID))
}

func (r *CachedAccreditationRepository) lookup(ctx context.Context, key string) (*domain.Accreditation, bool) {
	raw, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("accreditation cache read failed")
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	var c cachedAccreditation
	if err := json.Unmarshal(raw, &c); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable accreditation cache entry")
		return nil, false
	}

	return &domain.Accreditation{
		ID:                  c.ID,
		OrganisationID:      c.OrganisationID,
		RegistrationID:      c.RegistrationID,
		AccreditationNumber: c.AccreditationNumber,
		Regulator:           domain.Regulator(c.Regulator),
		ProcessingType:      domain.ProcessingType(c.ProcessingType),
		Material:            c.Material,
		ValidFrom:           c.ValidFrom,
		ValidTo:             c.ValidTo,
	}, true
}

func (r *CachedAccreditationRepository) store(ctx context.Context, key string, a *domain.Accreditation) {
	raw, err := json.Marshal(cachedAccreditation{
		ID:                  a.ID,
		OrganisationID:      a.OrganisationID,
		RegistrationID:      a.RegistrationID,
		AccreditationNumber: a.AccreditationNumber,
		Regulator:           string(a.Regulator),
		ProcessingType:      string(a.ProcessingType),
		Material:            a.Material,
		ValidFrom:           a.ValidFrom,
		ValidTo:             a.ValidTo,
	})
	if err != nil {
		return
	}

	if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("accreditation cache write failed")
	}
}

func accreditationKey(id string) string {
	return "accreditation:" + id
}
