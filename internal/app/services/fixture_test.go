package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/campusdesk/internal/app/auth"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/notify"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/app/repositories/memory"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
	"github.com/yigit/campusdesk/internal/pkg/cache"
	"github.com/yigit/campusdesk/internal/pkg/filestorage"
	"golang.org/x/crypto/bcrypt"
)

// fakeStorage keeps files in a map. Keys starting with failPrefix fail.
type fakeStorage struct {
	mu         sync.Mutex
	files      map[string]string
	seq        int
	failPrefix string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string]string)}
}

func (s *fakeStorage) Store(_ context.Context, _ []byte, _ string, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPrefix != "" && strings.HasPrefix(key, s.failPrefix) {
		return "", apperrors.NewStorageError("failed to store file", errors.New("disk full"))
	}
	s.seq++
	url := fmt.Sprintf("/uploads/%d-%s", s.seq, key)
	s.files[url] = key
	return url, nil
}

func (s *fakeStorage) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, url)
	return nil
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

func (s *fakeStorage) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[url]
	return ok
}

// recordingNotifier captures queued credential notices
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notify.CredentialNotice
}

func (n *recordingNotifier) NotifyCredentials(_ context.Context, notice notify.CredentialNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func (n *recordingNotifier) all() []notify.CredentialNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.CredentialNotice(nil), n.notices...)
}

type fixture struct {
	store    *memory.Store
	repos    *repositories.Repositories
	storage  *fakeStorage
	notifier *recordingNotifier
	jwt      *auth.JWTService

	admin        *AdminService
	auth         *AuthService
	enrollment   *EnrollmentService
	institutions *InstitutionService
	courses      *CourseService
	students     *StudentService
	dashboard    *DashboardService

	adminAccount *models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	store.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	})

	log := zerolog.Nop()
	storage := newFakeStorage()
	notifier := &recordingNotifier{}
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	gate := appauth.NewGate(jwt, auth.NewMemoryRevocationStore(), store.Repositories(), log)
	issuer := NewCredentialIssuer(hasher, 10, notifier, log)

	return &fixture{
		store:        store,
		repos:        store.Repositories(),
		storage:      storage,
		notifier:     notifier,
		jwt:          jwt,
		admin:        NewAdminService(store, hasher, log),
		auth:         NewAuthService(store, hasher, jwt, gate, log),
		enrollment:   NewEnrollmentService(store, storage, issuer, log),
		institutions: NewInstitutionService(store, storage, issuer, log),
		courses:      NewCourseService(store, storage, log),
		students:     NewStudentService(store, storage, log),
		dashboard:    NewDashboardService(store, cache.NewHelper(nil, "test:"), 0, log),
	}
}

func ptr[T any](v T) *T { return &v }

func image(name string) *filestorage.Upload {
	return &filestorage.Upload{Filename: name, ContentType: "image/png", Data: []byte("\x89PNG fake")}
}

func studentAssets() StudentAssets {
	return StudentAssets{Photo: image("photo.png"), Signature: image("signature.png")}
}

func studentInput(email string) dto.StudentInput {
	return dto.StudentInput{Name: "A", Email: email, Phone: "1234567890"}
}

func institutionInput(email string) dto.InstitutionInput {
	return dto.InstitutionInput{
		Name:        "Green Valley Academy",
		Email:       email,
		Phone:       "0123456789",
		GeoLocation: &dto.GeoLocationInput{Lat: ptr(23.81), Lng: ptr(90.41)},
	}
}

func (f *fixture) adminUser(t *testing.T) *models.Account {
	t.Helper()
	if f.adminAccount == nil {
		acc, err := f.admin.Register(context.Background(), dto.AdminRegisterRequest{Email: "admin@campus.test", Password: "admin-password"})
		require.NoError(t, err)
		f.adminAccount = acc
	}
	return f.adminAccount
}

// institution provisions an institution and returns its owner account
func (f *fixture) institution(t *testing.T, email string) (*models.Account, *models.Organization) {
	t.Helper()
	ctx := context.Background()
	res, err := f.institutions.Provision(ctx, f.adminUser(t), institutionInput(email), InstitutionAssets{Image: image("logo.png")})
	require.NoError(t, err)
	owner, err := f.repos.Accounts.GetByEmail(ctx, email)
	require.NoError(t, err)
	return owner, res.Institution
}

func (f *fixture) course(t *testing.T, actor *models.Account, name string) *models.CourseOffering {
	t.Helper()
	c, err := f.courses.Create(context.Background(), actor, dto.CourseInput{
		Name:        name,
		Duration:    "3 months",
		Fee:         ptr(1200.0),
		Description: "A practical course",
	}, image("course.png"))
	require.NoError(t, err)
	return c
}

func (f *fixture) enroll(t *testing.T, actor *models.Account, email string, courseID *int64) *EnrollmentResult {
	t.Helper()
	res, err := f.enrollment.Enroll(context.Background(), actor, studentInput(email), studentAssets(), courseID)
	require.NoError(t, err)
	return res
}
