package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for PostgreSQL. Unique keys behave like
// the real constraints and transactions are serialized with rollback, which
// is enough to exercise the idempotency paths.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users         map[uuid.UUID]entity.User
	sessions      map[string]entity.Session
	admins        map[uuid.UUID]entity.Admin
	bookings      map[uuid.UUID]entity.Booking
	projects      map[uuid.UUID]entity.Project
	updates       []entity.ProjectUpdate
	payments      map[string]entity.PaymentLog
	messages      []entity.Message
	notifications []entity.Notification

	// failNotifications makes every notification insert fail.
	failNotifications bool
	// lockedProjectReads counts FindByIDForUpdate calls on projects.
	lockedProjectReads int
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		users:    map[uuid.UUID]entity.User{},
		sessions: map[string]entity.Session{},
		admins:   map[uuid.UUID]entity.Admin{},
		bookings: map[uuid.UUID]entity.Booking{},
		projects: map[uuid.UUID]entity.Project{},
		payments: map[string]entity.PaymentLog{},
	}
}

type memSnapshot struct {
	users         map[uuid.UUID]entity.User
	sessions      map[string]entity.Session
	admins        map[uuid.UUID]entity.Admin
	bookings      map[uuid.UUID]entity.Booking
	projects      map[uuid.UUID]entity.Project
	updates       []entity.ProjectUpdate
	payments      map[string]entity.PaymentLog
	messages      []entity.Message
	notifications []entity.Notification
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		users:         copyMap(s.users),
		sessions:      copyMap(s.sessions),
		admins:        copyMap(s.admins),
		bookings:      copyMap(s.bookings),
		projects:      copyMap(s.projects),
		updates:       append([]entity.ProjectUpdate(nil), s.updates...),
		payments:      copyMap(s.payments),
		messages:      append([]entity.Message(nil), s.messages...),
		notifications: append([]entity.Notification(nil), s.notifications...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.sessions = snap.sessions
	s.admins = snap.admins
	s.bookings = snap.bookings
	s.projects = snap.projects
	s.updates = snap.updates
	s.payments = snap.payments
	s.messages = snap.messages
	s.notifications = snap.notifications
}

func (s *memStore) repository() *repository.Repository {
	repo := s.plainRepository()
	repo.Tx = &memTransactor{store: s}
	return repo
}

func (s *memStore) plainRepository() *repository.Repository {
	return &repository.Repository{
		User:          &memUserRepo{s},
		Session:       &memSessionRepo{s},
		Admin:         &memAdminRepo{s},
		Booking:       &memBookingRepo{s},
		Project:       &memProjectRepo{s},
		ProjectUpdate: &memProjectUpdateRepo{s},
		PaymentLog:    &memPaymentLogRepo{s},
		Message:       &memMessageRepo{s},
		Notification:  &memNotificationRepo{s},
	}
}

type memTransactor struct {
	store *memStore
}

func (t *memTransactor) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	repo := t.store.plainRepository()
	repo.Tx = memNested{repo: repo}

	if err := fn(repo); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type memNested struct {
	repo *repository.Repository
}

func (n memNested) WithinTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	return fn(n.repo)
}

// counters used by assertions

func (s *memStore) countUsersByEmail(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

func (s *memStore) countPayments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *memStore) projectsForBooking(id uuid.UUID) []entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Project
	for _, p := range s.projects {
		if p.BookingID != nil && *p.BookingID == id {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) notificationsFor(userID uuid.UUID) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (s *memStore) projectUpdates(projectID uuid.UUID) []entity.ProjectUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ProjectUpdate
	for _, u := range s.updates {
		if u.ProjectID == projectID {
			out = append(out, u)
		}
	}
	return out
}

// users

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindOrCreateByEmail(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return &u, false, nil
		}
	}
	r.s.users[user.ID] = *user
	created := *user
	return &created, true, nil
}

func (r *memUserRepo) ClaimProvisioned(ctx context.Context, user *entity.User) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, u := range r.s.users {
		if u.Email != user.Email {
			continue
		}
		if u.HasPassword || !u.IsActive {
			return false, nil
		}
		u.PasswordHash = user.PasswordHash
		u.FirstName = user.FirstName
		u.LastName = user.LastName
		u.Phone = user.Phone
		u.HasPassword = true
		u.UpdatedAt = user.UpdatedAt
		r.s.users[id] = u

		user.ID = u.ID
		user.IsActive = u.IsActive
		user.IsVerified = u.IsVerified
		user.CreatedAt = u.CreatedAt
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		u := u
		out = append(out, &u)
	}
	return page(out, limit, offset), nil
}

func (r *memUserRepo) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

// sessions

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = *session
	return nil
}

func (r *memSessionRepo) FindByToken(ctx context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (r *memSessionRepo) Deactivate(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sess, ok := r.s.sessions[token]; ok {
		sess.IsActive = false
		r.s.sessions[token] = sess
	}
	return nil
}

func (r *memSessionRepo) DeactivateAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for token, sess := range r.s.sessions {
		if sess.UserID == userID {
			sess.IsActive = false
			r.s.sessions[token] = sess
		}
	}
	return nil
}

func (r *memSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	var n int64
	for token, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(r.s.sessions, token)
			n++
		}
	}
	return n, nil
}

// admins

type memAdminRepo struct{ s *memStore }

func (r *memAdminRepo) Create(ctx context.Context, admin *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Email == admin.Email {
			return repository.ErrDuplicate
		}
	}
	r.s.admins[admin.ID] = *admin
	return nil
}

func (r *memAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *memAdminRepo) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAdminRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.admins[id]; ok {
		a.LastLogin = &at
		r.s.admins[id] = a
	}
	return nil
}

// bookings

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *memBookingRepo) FindByEmail(ctx context.Context, email string) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.Email == email {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		b := b
		out = append(out, &b)
	}
	return page(out, limit, offset), nil
}

func (r *memBookingRepo) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.bookings)), nil
}

func (r *memBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *memBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.bookings, id)
	return nil
}

func (r *memBookingRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus, transactionID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil
	}
	b.PaymentStatus = status
	if transactionID != nil {
		b.TransactionID = transactionID
	}
	r.s.bookings[id] = b
	return nil
}

func (r *memBookingRepo) CountByPaymentStatus(ctx context.Context) (map[entity.PaymentStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.PaymentStatus]int64{}
	for _, b := range r.s.bookings {
		out[b.PaymentStatus]++
	}
	return out, nil
}

// projects

type memProjectRepo struct{ s *memStore }

func (r *memProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if project.BookingID != nil {
		for _, p := range r.s.projects {
			if p.BookingID != nil && *p.BookingID == *project.BookingID {
				return repository.ErrDuplicate
			}
		}
	}
	r.s.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) CreateForBookingIfAbsent(ctx context.Context, project *entity.Project) (*entity.Project, bool, error) {
	if project.BookingID == nil {
		return nil, false, errors.New("project has no booking")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		if p.BookingID != nil && *p.BookingID == *project.BookingID {
			return &p, false, nil
		}
	}
	r.s.projects[project.ID] = *project
	created := *project
	return &created, true, nil
}

func (r *memProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memProjectRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	r.s.mu.Lock()
	r.s.lockedProjectReads++
	r.s.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r *memProjectRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.projects {
		if p.BookingID != nil && *p.BookingID == bookingID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memProjectRepo) FindByClientEmail(ctx context.Context, email string) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.s.projects {
		if p.ClientEmail == email {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *memProjectRepo) FindAll(ctx context.Context, status entity.ProjectStatus, limit, offset int) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.s.projects {
		if status == "" || p.Status == status {
			p := p
			out = append(out, &p)
		}
	}
	return page(out, limit, offset), nil
}

func (r *memProjectRepo) CountAll(ctx context.Context, status entity.ProjectStatus) (int64, error) {
	projects, _ := r.FindAll(ctx, status, 1<<30, 0)
	return int64(len(projects)), nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	return nil
}

func (r *memProjectRepo) CountByStatus(ctx context.Context) (map[entity.ProjectStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.ProjectStatus]int64{}
	for _, p := range r.s.projects {
		out[p.Status]++
	}
	return out, nil
}

// project updates

type memProjectUpdateRepo struct{ s *memStore }

func (r *memProjectUpdateRepo) Create(ctx context.Context, update *entity.ProjectUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.updates = append(r.s.updates, *update)
	return nil
}

func (r *memProjectUpdateRepo) FindByProjectID(ctx context.Context, projectID uuid.UUID, visibleOnly bool) ([]*entity.ProjectUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProjectUpdate
	for _, u := range r.s.updates {
		if u.ProjectID == projectID && (!visibleOnly || u.VisibleToClient) {
			u := u
			out = append(out, &u)
		}
	}
	return out, nil
}

// payment logs

type memPaymentLogRepo struct{ s *memStore }

func (r *memPaymentLogRepo) InsertIfAbsent(ctx context.Context, log *entity.PaymentLog) (*entity.PaymentLog, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.payments[log.Reference]; ok {
		return &existing, false, nil
	}
	r.s.payments[log.Reference] = *log
	created := *log
	return &created, true, nil
}

func (r *memPaymentLogRepo) FindByReference(ctx context.Context, reference string) (*entity.PaymentLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[reference]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memPaymentLogRepo) FindByCustomerEmail(ctx context.Context, email string) ([]*entity.PaymentLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PaymentLog
	for _, p := range r.s.payments {
		if p.CustomerEmail == email {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *memPaymentLogRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.PaymentLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PaymentLog
	for _, p := range r.s.payments {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return page(out, limit, offset), nil
}

func (r *memPaymentLogRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(r.s.countPayments()), nil
}

func (r *memPaymentLogRepo) LinkProject(ctx context.Context, id, projectID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for ref, p := range r.s.payments {
		if p.ID == id {
			p.ProjectID = &projectID
			r.s.payments[ref] = p
		}
	}
	return nil
}

func (r *memPaymentLogRepo) Revenue(ctx context.Context) (float64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	var n int64
	for _, p := range r.s.payments {
		if p.Status == "success" {
			total += p.Amount
			n++
		}
	}
	return total, n, nil
}

// messages

type memMessageRepo struct{ s *memStore }

func (r *memMessageRepo) Create(ctx context.Context, msg *entity.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *memMessageRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.s.messages {
		if m.UserID == userID {
			m := m
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, m := range r.s.messages {
		if m.UserID == userID && !m.IsRead && m.Sender == entity.SenderAdmin {
			n++
		}
	}
	return n, nil
}

func (r *memMessageRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.messages {
		if m.ID == id && m.UserID == userID {
			r.s.messages[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

// notifications

type memNotificationRepo struct{ s *memStore }

func (r *memNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failNotifications {
		return errInjected
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r *memNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	return page(out, limit, 0), nil
}

func (r *memNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, notif := range r.s.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			r.s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
