// Package memory is an in-process implementation of the repositories. It
// backs the service tests and single-node development runs.
//
// Transactions are serialized: WithinTransaction holds the store lock for
// its whole duration and works on a private copy of the data that replaces
// the live copy only when fn succeeds.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/repositories"
)

type edgeSet map[int64]map[int64]struct{}

func (e edgeSet) add(from, to int64) {
	if e[from] == nil {
		e[from] = make(map[int64]struct{})
	}
	e[from][to] = struct{}{}
}

func (e edgeSet) remove(from, to int64) {
	delete(e[from], to)
	if len(e[from]) == 0 {
		delete(e, from)
	}
}

func (e edgeSet) has(from, to int64) bool {
	_, ok := e[from][to]
	return ok
}

func (e edgeSet) sorted(from int64) []int64 {
	ids := make([]int64, 0, len(e[from]))
	for id := range e[from] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (e edgeSet) clone() edgeSet {
	out := make(edgeSet, len(e))
	for from, tos := range e {
		m := make(map[int64]struct{}, len(tos))
		for to := range tos {
			m[to] = struct{}{}
		}
		out[from] = m
	}
	return out
}

type state struct {
	accounts map[int64]*models.Account
	orgs     map[int64]*models.Organization
	courses  map[int64]*models.CourseOffering
	students map[int64]*models.StudentProfile

	// both directions of every enrollment edge
	studentCourses edgeSet
	courseStudents edgeSet

	seqAccount, seqOrg, seqCourse, seqStudent int64
}

func newState() *state {
	return &state{
		accounts:       make(map[int64]*models.Account),
		orgs:           make(map[int64]*models.Organization),
		courses:        make(map[int64]*models.CourseOffering),
		students:       make(map[int64]*models.StudentProfile),
		studentCourses: make(edgeSet),
		courseStudents: make(edgeSet),
	}
}

func (s *state) clone() *state {
	out := &state{
		accounts:       make(map[int64]*models.Account, len(s.accounts)),
		orgs:           make(map[int64]*models.Organization, len(s.orgs)),
		courses:        make(map[int64]*models.CourseOffering, len(s.courses)),
		students:       make(map[int64]*models.StudentProfile, len(s.students)),
		studentCourses: s.studentCourses.clone(),
		courseStudents: s.courseStudents.clone(),
		seqAccount:     s.seqAccount,
		seqOrg:         s.seqOrg,
		seqCourse:      s.seqCourse,
		seqStudent:     s.seqStudent,
	}
	for id, a := range s.accounts {
		out.accounts[id] = copyAccount(a)
	}
	for id, o := range s.orgs {
		out.orgs[id] = copyOrganization(o)
	}
	for id, c := range s.courses {
		out.courses[id] = copyCourse(c)
	}
	for id, st := range s.students {
		out.students[id] = copyStudent(st)
	}
	return out
}

// access runs fn against a state with the right locking
type access interface {
	read(ctx context.Context, fn func(st *state) error) error
	write(ctx context.Context, fn func(st *state) error) error
}

// live guards the store's current state with its RWMutex
type live struct {
	store *Store
}

func (l live) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return fn(l.store.st)
}

func (l live) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return fn(l.store.st)
}

// private is a transaction's working copy; the store lock is already held
type private struct {
	st *state
}

func (p private) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(p.st)
}

func (p private) write(ctx context.Context, fn func(st *state) error) error {
	return p.read(ctx, fn)
}

// Store is the in-memory repositories.Store
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

var _ repositories.Store = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// SetClock replaces the timestamp source. Tests use it for deterministic ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) repos(a access) *repositories.Repositories {
	return &repositories.Repositories{
		Accounts:      &accountRepo{a: a, now: s.clock},
		Organizations: &organizationRepo{a: a, now: s.clock},
		Courses:       &courseRepo{a: a, now: s.clock},
		Students:      &studentRepo{a: a, now: s.clock},
		Enrollments:   &enrollmentRepo{a: a},
	}
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// Repositories returns repositories that each lock the store per call.
func (s *Store) Repositories() *repositories.Repositories {
	return s.repos(live{store: s})
}

// WithinTransaction serializes fn against every other transaction and write.
// Calling the non-transactional repositories from inside fn deadlocks.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(ctx, s.repos(private{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// page slices a newest-first listing
func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := int(offset) + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func recent[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// newestFirst orders by creation time, then id, both descending
func newestFirst(aTime, bTime time.Time, aID, bID int64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}
