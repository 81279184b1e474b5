package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/repository"
	pkgerrors "github.com/OmPrakashMadasi/restaurant-reservation/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Mock Repositories
// ═══════════════════════════════════════════════════════════
//
// 内存实现，行为与 GORM 实现保持一致：
//   - 未找到返回 gorm.ErrRecordNotFound
//   - 唯一约束冲突返回 pkgerrors.ErrUniqueViolation
//   - failWith 非 nil 时所有操作返回该错误（模拟存储故障）

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu       sync.Mutex
	users    map[string]*model.User // key: user_id
	seq      int
	failWith error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrUniqueViolation
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock TableRepository ──

type mockTableRepo struct {
	mu       sync.Mutex
	tables   map[string]*model.Table
	seq      int
	failWith error
}

func newMockTableRepo() *mockTableRepo {
	return &mockTableRepo{tables: make(map[string]*model.Table)}
}

// add 直接写入一张餐桌（测试准备数据用）
func (m *mockTableRepo) add(id, name string, capacity int) *model.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &model.Table{TableID: id, Name: name, Capacity: capacity, IsAvailable: true}
	m.tables[id] = t
	cp := *t
	return &cp
}

// snapshot 含已软删除的餐桌，供预订预加载使用
func (m *mockTableRepo) snapshot(id string) *model.Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[id]; ok {
		cp := *t
		return &cp
	}
	return nil
}

func (m *mockTableRepo) nameTaken(name, exceptID string) bool {
	for _, t := range m.tables {
		if t.Name == name && t.TableID != exceptID && !t.DeletedAt.Valid {
			return true
		}
	}
	return false
}

func (m *mockTableRepo) Create(_ context.Context, table *model.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.nameTaken(table.Name, "") {
		return pkgerrors.ErrUniqueViolation
	}
	if table.TableID == "" {
		m.seq++
		table.TableID = fmt.Sprintf("table-%d", m.seq)
	}
	cp := *table
	m.tables[table.TableID] = &cp
	return nil
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if t, ok := m.tables[id]; ok && !t.DeletedAt.Valid {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) GetByName(_ context.Context, name string) (*model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, t := range m.tables {
		if t.Name == name && !t.DeletedAt.Valid {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTableRepo) list(onlyAvailable bool) []model.Table {
	var result []model.Table
	for _, t := range m.tables {
		if t.DeletedAt.Valid || (onlyAvailable && !t.IsAvailable) {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Capacity != result[j].Capacity {
			return result[i].Capacity < result[j].Capacity
		}
		return result[i].Name < result[j].Name
	})
	return result
}

func (m *mockTableRepo) ListBookable(_ context.Context) ([]model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.list(true), nil
}

func (m *mockTableRepo) ListAll(_ context.Context) ([]model.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.list(false), nil
}

func (m *mockTableRepo) Update(_ context.Context, table *model.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	t, ok := m.tables[table.TableID]
	if !ok || t.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	if m.nameTaken(table.Name, table.TableID) {
		return pkgerrors.ErrUniqueViolation
	}
	t.Name, t.Capacity, t.IsAvailable = table.Name, table.Capacity, table.IsAvailable
	return nil
}

func (m *mockTableRepo) SetAvailability(_ context.Context, id string, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	t, ok := m.tables[id]
	if !ok || t.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	t.IsAvailable = available
	return nil
}

func (m *mockTableRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	t, ok := m.tables[id]
	if !ok || t.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	t.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

// ── Mock ReservationRepository ──

type mockReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]*model.Reservation
	tables       *mockTableRepo
	users        *mockUserRepo
	seq          int
	failWith     error
	updateErr    error // 仅 Update 返回该错误（模拟乐观锁冲突等）
	updateCalls  int
}

func newMockReservationRepo(tables *mockTableRepo, users *mockUserRepo) *mockReservationRepo {
	return &mockReservationRepo{
		reservations: make(map[string]*model.Reservation),
		tables:       tables,
		users:        users,
	}
}

// slotTaken 模拟部分唯一索引 (table_id, date, time_slot) WHERE status='confirmed'
func (m *mockReservationRepo) slotTaken(r *model.Reservation) bool {
	if !r.IsConfirmed() {
		return false
	}
	for _, e := range m.reservations {
		if e.ReservationID != r.ReservationID && e.IsConfirmed() &&
			e.TableID == r.TableID && e.Date.Equal(r.Date) && e.TimeSlot == r.TimeSlot {
			return true
		}
	}
	return false
}

// withAssociations 返回带餐桌与用户快照的副本
func (m *mockReservationRepo) withAssociations(r *model.Reservation) model.Reservation {
	cp := *r
	cp.Table = m.tables.snapshot(r.TableID)
	if u, ok := m.users.users[r.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return cp
}

func (m *mockReservationRepo) sorted(filter func(*model.Reservation) bool, less func(a, b *model.Reservation) bool) []model.Reservation {
	var result []model.Reservation
	for _, r := range m.reservations {
		if filter(r) {
			result = append(result, m.withAssociations(r))
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(&result[i], &result[j]) })
	return result
}

func (m *mockReservationRepo) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	r.Date = model.CalendarDay(r.Date)
	if m.slotTaken(r) {
		return pkgerrors.ErrUniqueViolation
	}
	if r.ReservationID == "" {
		m.seq++
		r.ReservationID = fmt.Sprintf("res-%d", m.seq)
	}
	now := time.Now()
	r.CreatedAt, r.UpdatedAt = now, now
	cp := *r
	cp.Table, cp.User = nil, nil
	m.reservations[r.ReservationID] = &cp
	return nil
}

func (m *mockReservationRepo) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if r, ok := m.reservations[id]; ok {
		cp := m.withAssociations(r)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) GetOwned(_ context.Context, id, userID string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if r, ok := m.reservations[id]; ok && r.UserID == userID {
		cp := m.withAssociations(r)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) FindBySlot(_ context.Context, tableID string, date time.Time, timeSlot string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	day := model.CalendarDay(date)
	for _, r := range m.reservations {
		if r.IsConfirmed() && r.TableID == tableID && r.Date.Equal(day) && r.TimeSlot == timeSlot {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReservationRepo) ListByUser(_ context.Context, userID string) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sorted(
		func(r *model.Reservation) bool { return r.UserID == userID },
		func(a, b *model.Reservation) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.TimeSlot < b.TimeSlot
		},
	), nil
}

func (m *mockReservationRepo) List(_ context.Context, day *time.Time) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.sorted(
		func(r *model.Reservation) bool { return day == nil || r.Date.Equal(model.CalendarDay(*day)) },
		func(a, b *model.Reservation) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.TimeSlot < b.TimeSlot
		},
	), nil
}

func (m *mockReservationRepo) Update(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.failWith != nil {
		return m.failWith
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.reservations[r.ReservationID]
	if !ok || existing.Version != r.Version {
		return pkgerrors.ErrOptimisticLock
	}
	r.Date = model.CalendarDay(r.Date)
	if m.slotTaken(r) {
		return pkgerrors.ErrUniqueViolation
	}
	r.Version++
	r.UpdatedAt = time.Now()
	cp := *r
	cp.Table, cp.User = nil, nil
	m.reservations[r.ReservationID] = &cp
	return nil
}

func (m *mockReservationRepo) Cancel(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	r, ok := m.reservations[id]
	if !ok || (ownerID != "" && r.UserID != ownerID) {
		return gorm.ErrRecordNotFound
	}
	r.Status = model.ReservationStatusCancelled
	r.Version++
	return nil
}

func (m *mockReservationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.reservations[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *mockReservationRepo) DeleteOwned(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	r, ok := m.reservations[id]
	if !ok || r.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *mockReservationRepo) CountActiveByTable(_ context.Context, tableID string, from time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	var n int64
	day := model.CalendarDay(from)
	for _, r := range m.reservations {
		if r.TableID == tableID && r.IsConfirmed() && !r.Date.Before(day) {
			n++
		}
	}
	return n, nil
}

// ═══════════════════════════════════════════════════════════
// Test Environment
// ═══════════════════════════════════════════════════════════

// testNow 测试中的“现在”：2026-01-05 中午（UTC）
var testNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return NewClock(func() time.Time { return testNow }, time.UTC)
}

type testEnv struct {
	repo         *repository.Repository
	users        *mockUserRepo
	tables       *mockTableRepo
	reservations *mockReservationRepo
}

func newTestEnv() *testEnv {
	users := newMockUserRepo()
	tables := newMockTableRepo()
	reservations := newMockReservationRepo(tables, users)
	return &testEnv{
		repo: &repository.Repository{
			User:        users,
			Table:       tables,
			Reservation: reservations,
		},
		users:        users,
		tables:       tables,
		reservations: reservations,
	}
}

// seedReservation 直接写入台账（绕过校验）
func (e *testEnv) seedReservation(userID, tableID, date, slot string, guests int, status string) *model.Reservation {
	d, err := model.ParseCalendarDay(date)
	if err != nil {
		panic(err)
	}
	r := &model.Reservation{
		UserID:   userID,
		TableID:  tableID,
		Date:     d,
		TimeSlot: slot,
		Guests:   guests,
		Status:   status,
	}
	r.Version = 1
	if err := e.reservations.Create(context.Background(), r); err != nil {
		panic(err)
	}
	return r
}
