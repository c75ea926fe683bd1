package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quickseat/portal/internal/domain"
	"github.com/quickseat/portal/internal/repository"
	apperrors "github.com/quickseat/portal/pkg/util"
)

const publishedEventsCacheKey = "catalog:events:published"

// CatalogService manages venues and events. The published event listing is
// the portal's hottest read, so it goes through a short-lived Redis cache;
// any event mutation drops the key.
type CatalogService struct {
	venues   repository.VenueRepository
	events   repository.EventRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService constructs the service. Cache may be nil, in which
// case every listing hits Postgres.
func NewCatalogService(venues repository.VenueRepository, eventsRepo repository.EventRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		venues:   venues,
		events:   eventsRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// VenueInput describes venue create/update payload.
type VenueInput struct {
	Name     string
	Address  string
	City     string
	Capacity int
}

// EventInput describes event create/update payload.
type EventInput struct {
	VenueID     string
	Name        string
	Category    string
	Description string
	StartsAt    time.Time
	Capacity    int
	PriceCents  int64
	Published   bool
}

// CreateVenue registers a new venue.
func (s *CatalogService) CreateVenue(ctx context.Context, input VenueInput) (*domain.Venue, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("venue name required", nil)
	}
	venue := &domain.Venue{
		Name:     strings.TrimSpace(input.Name),
		Address:  strings.TrimSpace(input.Address),
		City:     strings.TrimSpace(input.City),
		Capacity: input.Capacity,
	}
	if err := s.venues.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// UpdateVenue applies changes to an existing venue.
func (s *CatalogService) UpdateVenue(ctx context.Context, venueID string, input VenueInput) (*domain.Venue, error) {
	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"venue_id": venueID})
		}
		return nil, err
	}
	venue.Name = strings.TrimSpace(input.Name)
	venue.Address = strings.TrimSpace(input.Address)
	venue.City = strings.TrimSpace(input.City)
	venue.Capacity = input.Capacity
	if err := s.venues.Update(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// GetVenue fetches one venue.
func (s *CatalogService) GetVenue(ctx context.Context, venueID string) (*domain.Venue, error) {
	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("venue", map[string]any{"venue_id": venueID})
		}
		return nil, err
	}
	return venue, nil
}

// ListVenues returns venues for admin screens.
func (s *CatalogService) ListVenues(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	return s.venues.List(ctx, limit, offset)
}

// CreateEvent registers a new event at an existing venue.
func (s *CatalogService) CreateEvent(ctx context.Context, input EventInput) (*domain.Event, error) {
	if err := s.validateEventInput(ctx, input); err != nil {
		return nil, err
	}
	event := &domain.Event{
		VenueID:     input.VenueID,
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		StartsAt:    input.StartsAt,
		Capacity:    input.Capacity,
		PriceCents:  input.PriceCents,
		Published:   input.Published,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.invalidateListingCache(ctx)
	return event, nil
}

// UpdateEvent applies changes to an existing event.
func (s *CatalogService) UpdateEvent(ctx context.Context, eventID string, input EventInput) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	if err := s.validateEventInput(ctx, input); err != nil {
		return nil, err
	}
	event.VenueID = input.VenueID
	event.Name = strings.TrimSpace(input.Name)
	event.Category = strings.TrimSpace(input.Category)
	event.Description = strings.TrimSpace(input.Description)
	event.StartsAt = input.StartsAt
	event.Capacity = input.Capacity
	event.PriceCents = input.PriceCents
	event.Published = input.Published
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	s.invalidateListingCache(ctx)
	return event, nil
}

// GetEvent fetches one event.
func (s *CatalogService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	return event, nil
}

// ListEvents returns events for admin screens, uncached.
func (s *CatalogService) ListEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	return s.events.ListWithFilter(ctx, filter)
}

// ListPublishedEvents returns the public catalog, served from cache when
// warm. Only the default first page is cached.
func (s *CatalogService) ListPublishedEvents(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	filter.PublishedOnly = true
	cacheable := s.cache != nil && s.cacheTTL > 0 &&
		filter.VenueID == nil && filter.Category == nil && filter.Offset == 0

	if cacheable {
		if raw, err := s.cache.Get(ctx, publishedEventsCacheKey).Bytes(); err == nil {
			var cached []domain.Event
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := s.events.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, publishedEventsCacheKey, raw, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return result, nil
}

func (s *CatalogService) validateEventInput(ctx context.Context, input EventInput) error {
	if strings.TrimSpace(input.Name) == "" || input.VenueID == "" {
		return apperrors.NewValidationError("event name and venue_id required", nil)
	}
	if input.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be positive", nil)
	}
	if input.PriceCents < 0 {
		return apperrors.NewValidationError("price must not be negative", nil)
	}
	if _, err := s.venues.GetByID(ctx, input.VenueID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("venue", map[string]any{"venue_id": input.VenueID})
		}
		return err
	}
	return nil
}

func (s *CatalogService) invalidateListingCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, publishedEventsCacheKey).Err(); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
