// Package testutil holds in-memory implementations of the repository and
// service interfaces for unit tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/internal/domain/experience"
	"github.com/khoahotran/portfolio-cms/internal/domain/profile"
	"github.com/khoahotran/portfolio-cms/internal/domain/project"
	"github.com/khoahotran/portfolio-cms/internal/domain/skill"
	"github.com/khoahotran/portfolio-cms/internal/domain/user"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
)

var ErrInjected = errors.New("injected failure")

var (
	_ profile.Repository     = (*ProfileRepo)(nil)
	_ experience.Repository  = (*ExperienceRepo)(nil)
	_ project.Repository     = (*ProjectRepo)(nil)
	_ skill.Repository       = (*SkillRepo)(nil)
	_ user.Repository        = (*UserRepo)(nil)
	_ user.SessionStore      = (*SessionStore)(nil)
	_ user.AttemptLimiter    = (*Limiter)(nil)
	_ service.BlobStore      = (*BlobStore)(nil)
	_ service.ChangeNotifier = (*Notifier)(nil)
	_ service.EventPublisher = (*Publisher)(nil)
)

type ProfileRepo struct {
	mu     sync.RWMutex
	config *profile.Config
	err    error
	panics bool
}

func NewProfileRepo(cfg *profile.Config) *ProfileRepo {
	return &ProfileRepo{config: cfg}
}

func (r *ProfileRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *ProfileRepo) Panic() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = true
}

func (r *ProfileRepo) Get(ctx context.Context) (*profile.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.panics {
		panic("profile store exploded")
	}
	if r.err != nil {
		return nil, apperror.NewRemote("getProfile", r.err)
	}
	if r.config == nil {
		return nil, apperror.NewRemote("getProfile", apperror.NewNotFound("profile", "1"))
	}
	c := *r.config
	return &c, nil
}

func (r *ProfileRepo) Update(ctx context.Context, patch profile.Patch) (*profile.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, apperror.NewRemote("updateProfile", r.err)
	}
	if r.config == nil {
		return nil, apperror.NewRemote("updateProfile", apperror.NewNotFound("profile", "1"))
	}
	patch.Apply(r.config)
	r.config.UpdatedAt = time.Now().UTC()
	c := *r.config
	return &c, nil
}

type ExperienceRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]experience.Experience
	err   error
}

func NewExperienceRepo(items ...experience.Experience) *ExperienceRepo {
	r := &ExperienceRepo{items: make(map[uuid.UUID]experience.Experience)}
	for _, e := range items {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.items[e.ID] = e
	}
	return r
}

func (r *ExperienceRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *ExperienceRepo) List(ctx context.Context) ([]*experience.Experience, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, apperror.NewRemote("listExperiences", r.err)
	}
	out := make([]*experience.Experience, 0, len(r.items))
	for _, e := range r.items {
		e := e
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r *ExperienceRepo) Upsert(ctx context.Context, e *experience.Experience) (*experience.Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, apperror.NewRemote("upsertExperience", r.err)
	}
	saved := *e
	now := time.Now().UTC()
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
		saved.CreatedAt = now
	} else if prev, ok := r.items[saved.ID]; ok {
		saved.CreatedAt = prev.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	r.items[saved.ID] = saved
	return &saved, nil
}

func (r *ExperienceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return apperror.NewRemote("deleteExperience", r.err)
	}
	delete(r.items, id)
	return nil
}

func (r *ExperienceRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

type ProjectRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]project.Project
	err   error
}

func NewProjectRepo(items ...project.Project) *ProjectRepo {
	r := &ProjectRepo{items: make(map[uuid.UUID]project.Project)}
	for _, p := range items {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.items[p.ID] = p
	}
	return r
}

func (r *ProjectRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *ProjectRepo) List(ctx context.Context) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, apperror.NewRemote("listProjects", r.err)
	}
	out := make([]*project.Project, 0, len(r.items))
	for _, p := range r.items {
		p := p
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProjectRepo) Upsert(ctx context.Context, p *project.Project) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, apperror.NewRemote("upsertProject", r.err)
	}
	saved := *p
	now := time.Now().UTC()
	if saved.ID == uuid.Nil {
		saved.ID = uuid.New()
		saved.CreatedAt = now
	} else if prev, ok := r.items[saved.ID]; ok {
		saved.CreatedAt = prev.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	r.items[saved.ID] = saved
	return &saved, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return apperror.NewRemote("deleteProject", r.err)
	}
	delete(r.items, id)
	return nil
}

type SkillRepo struct {
	mu    sync.RWMutex
	items []skill.Category
	err   error
}

func NewSkillRepo(items ...skill.Category) *SkillRepo {
	return &SkillRepo{items: items}
}

func (r *SkillRepo) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *SkillRepo) List(ctx context.Context) ([]skill.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, apperror.NewRemote("listSkills", r.err)
	}
	out := make([]skill.Category, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *SkillRepo) Replace(ctx context.Context, categories []skill.Category) ([]skill.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, apperror.NewRemote("replaceSkills", r.err)
	}
	r.items = make([]skill.Category, len(categories))
	for i, c := range categories {
		c.ID = uuid.New()
		r.items[i] = c
	}
	out := make([]skill.Category, len(r.items))
	copy(out, r.items)
	return out, nil
}

type UserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*user.User
}

func NewUserRepo(users ...*user.User) *UserRepo {
	r := &UserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, apperror.NewNotFound("user", id.String())
}

type SessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func NewSessionStore() *SessionStore {
	return &SessionStore{revoked: make(map[string]time.Duration)}
}

func (s *SessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *SessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

// Limiter allows Max attempts per key.
type Limiter struct {
	mu     sync.Mutex
	Max    int
	counts map[string]int
}

func NewLimiter(max int) *Limiter {
	return &Limiter{Max: max, counts: make(map[string]int)}
}

func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[key]++
	return l.counts[key] <= l.Max, nil
}

// BlobStore keeps uploaded objects in memory and serves them under BaseURL.
type BlobStore struct {
	mu      sync.Mutex
	BaseURL string
	objects map[string][]byte
	err     error
}

func NewBlobStore() *BlobStore {
	return &BlobStore{BaseURL: "https://cdn.example.com", objects: make(map[string][]byte)}
}

func (s *BlobStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *BlobStore) Put(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	key := bucket + "/" + name
	s.objects[key] = buf.Bytes()
	return fmt.Sprintf("%s/%s", s.BaseURL, key), nil
}

func (s *BlobStore) Object(bucket, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[bucket+"/"+name]
	return b, ok
}

func (s *BlobStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Notifier struct {
	mu        sync.Mutex
	resources []string
}

func (n *Notifier) ContentChanged(ctx context.Context, resource string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resources = append(n.resources, resource)
}

func (n *Notifier) Resources() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.resources...)
}

type Publisher struct {
	mu     sync.Mutex
	events []service.ContentEvent
	err    error
}

func (p *Publisher) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *Publisher) PublishContentEvent(ctx context.Context, evt service.ContentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *Publisher) Events() []service.ContentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.ContentEvent(nil), p.events...)
}

// Refresher counts Refresh calls.
type Refresher struct {
	calls atomic.Int64
}

func (r *Refresher) Refresh(ctx context.Context) {
	r.calls.Add(1)
}

func (r *Refresher) Calls() int64 {
	return r.calls.Load()
}
