package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/pkg/cache"
	"github.com/yigit/campusdesk/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

// DashboardService builds the aggregate views for admins and institutions.
// Results are cached for a short TTL when Redis is configured.
type DashboardService struct {
	store  repositories.Store
	cache  *cache.Helper
	ttl    time.Duration
	logger zerolog.Logger
}

// NewDashboardService creates a new DashboardService. A zero ttl disables caching.
func NewDashboardService(store repositories.Store, cache *cache.Helper, ttl time.Duration, logger zerolog.Logger) *DashboardService {
	return &DashboardService{store: store, cache: cache, ttl: ttl, logger: logger}
}

func (s *DashboardService) caching() bool {
	return s.cache != nil && s.ttl > 0
}

// cached serves key from the cache or builds it with load and stores the result
func cached[T any](ctx context.Context, s *DashboardService, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if s.caching() {
		var hit T
		err := s.cache.Get(ctx, key, &hit)
		if err == nil {
			return &hit, nil
		}
		if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
			s.logger.Warn().Err(err).Str("key", key).Msg("Dashboard cache read failed")
		}
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.caching() {
		if err := s.cache.Set(ctx, key, out, s.ttl); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Dashboard cache write failed")
		}
	}
	return out, nil
}

// Admin returns system-wide totals and the newest institutions and students.
// The counts run concurrently and are combined once all of them finish.
func (s *DashboardService) Admin(ctx context.Context, actor *models.Account) (*dto.AdminDashboard, error) {
	if err := auth.RequireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	return cached(ctx, s, "dashboard:admin", func(ctx context.Context) (*dto.AdminDashboard, error) {
		repos := s.store.Repositories()
		out := &dto.AdminDashboard{}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			out.TotalInstitutions, err = repos.Organizations.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			out.TotalStudents, err = repos.Students.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			out.TotalCourses, err = repos.Courses.Count(gctx)
			return err
		})
		g.Go(func() (err error) {
			out.RecentInstitutions, err = repos.Organizations.Recent(gctx, helpers.DefaultRecentLimit)
			return err
		})
		g.Go(func() (err error) {
			out.RecentStudents, err = repos.Students.Recent(gctx, helpers.DefaultRecentLimit)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("building admin dashboard: %w", err)
		}
		return out, nil
	})
}

// Institution returns the caller's totals and newest courses and students
func (s *DashboardService) Institution(ctx context.Context, actor *models.Account) (*dto.InstitutionDashboard, error) {
	repos := s.store.Repositories()
	org, err := ownOrganization(ctx, repos, actor)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("dashboard:institution:%d", org.ID)
	return cached(ctx, s, key, func(ctx context.Context) (*dto.InstitutionDashboard, error) {
		out := &dto.InstitutionDashboard{}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			out.TotalCourses, err = repos.Courses.CountByOrganization(gctx, org.ID)
			return err
		})
		g.Go(func() (err error) {
			out.TotalStudents, err = repos.Students.CountByOrganization(gctx, org.ID)
			return err
		})
		g.Go(func() (err error) {
			out.RecentCourses, err = repos.Courses.RecentByOrganization(gctx, org.ID, helpers.DefaultRecentLimit)
			return err
		})
		g.Go(func() (err error) {
			out.RecentStudents, err = repos.Students.RecentByOrganization(gctx, org.ID, helpers.DefaultRecentLimit)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("building institution dashboard: %w", err)
		}
		return out, nil
	})
}
