package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/OmPrakashMadasi/restaurant-reservation/internal/dto"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
)

// ── 测试辅助 ──

func setupTestReservationService() (ReservationService, *testEnv) {
	env := newTestEnv()
	env.tables.add("t1", "T1", 2)
	env.tables.add("t2", "T2", 4)
	return NewReservationService(env.repo, fixedClock(), zap.NewNop()), env
}

func bookingReq(tableID, date, slot string, guests int) *dto.CreateReservationRequest {
	return &dto.CreateReservationRequest{Date: date, TimeSlot: slot, Guests: guests, TableID: tableID}
}

// ── Create 测试 ──

func TestReservationService_Create_Success(t *testing.T) {
	svc, env := setupTestReservationService()

	resp, err := svc.Create(context.Background(), "user-a", bookingReq("t1", "2026-01-10", "18:00", 2))
	if err != nil {
		t.Fatalf("期望成功，实际: %v", err)
	}
	if resp.Status != model.ReservationStatusConfirmed {
		t.Errorf("期望 confirmed，实际 %s", resp.Status)
	}
	if resp.UserID != "user-a" {
		t.Errorf("期望归属 user-a，实际 %s", resp.UserID)
	}
	if resp.Table == nil || resp.Table.Name != "T1" {
		t.Errorf("响应应携带餐桌信息: %+v", resp.Table)
	}
	if len(env.reservations.reservations) != 1 {
		t.Errorf("期望台账 1 条，实际 %d", len(env.reservations.reservations))
	}
}

func TestReservationService_Create_SlotConflict(t *testing.T) {
	svc, _ := setupTestReservationService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-a", bookingReq("t1", "2026-01-10", "18:00", 2)); err != nil {
		t.Fatalf("首次预订失败: %v", err)
	}

	_, err := svc.Create(ctx, "user-b", bookingReq("t1", "2026-01-10", "18:00", 1))
	if !errors.Is(err, ErrSlotConflict) {
		t.Errorf("期望 ErrSlotConflict，实际: %v", err)
	}

	// 其他时段、其他餐桌不受影响
	if _, err := svc.Create(ctx, "user-b", bookingReq("t1", "2026-01-10", "18:30", 1)); err != nil {
		t.Errorf("相邻时段应可预订，实际: %v", err)
	}
	if _, err := svc.Create(ctx, "user-b", bookingReq("t2", "2026-01-10", "18:00", 4)); err != nil {
		t.Errorf("其他餐桌应可预订，实际: %v", err)
	}
}

func TestReservationService_Create_ValidationOrder(t *testing.T) {
	svc, _ := setupTestReservationService()
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *dto.CreateReservationRequest
		wantErr error
	}{
		{"过去日期", bookingReq("t1", "2026-01-04", "18:00", 2), ErrPastDate},
		{"餐桌不存在", bookingReq("missing", "2026-01-10", "18:00", 2), ErrTableNotFound},
		{"超过容量", bookingReq("t1", "2026-01-10", "18:30", 3), ErrCapacityExceeded},
		{"非法时段", bookingReq("t1", "2026-01-10", "22:00", 2), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "user-a", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际 %v", tt.wantErr, err)
			}
		})
	}
}

func TestReservationService_Create_UnavailableTableStillBookable(t *testing.T) {
	svc, env := setupTestReservationService()
	_ = env.tables.SetAvailability(context.Background(), "t1", false)

	if _, err := svc.Create(context.Background(), "user-a", bookingReq("t1", "2026-01-10", "18:00", 2)); err != nil {
		t.Errorf("可预订标记只影响列表展示，实际: %v", err)
	}
}

func TestReservationService_Create_StorageUnavailable(t *testing.T) {
	svc, env := setupTestReservationService()
	env.reservations.failWith = errors.New("connection refused")

	_, err := svc.Create(context.Background(), "user-a", bookingReq("t1", "2026-01-10", "18:00", 2))
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("期望 ErrStorageUnavailable，实际: %v", err)
	}
}

func TestReservationService_Create_ConcurrentSameSlot(t *testing.T) {
	svc, _ := setupTestReservationService()
	ctx := context.Background()

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, "user-x", bookingReq("t1", "2026-01-10", "19:00", 1))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, ErrSlotConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	if successes != 1 || conflicts != n-1 {
		t.Errorf("期望 1 成功 %d 冲突，实际 %d 成功 %d 冲突", n-1, successes, conflicts)
	}
}

// ── ListMine 测试 ──

func TestReservationService_ListMine_OnlyOwnSorted(t *testing.T) {
	svc, env := setupTestReservationService()
	env.seedReservation("user-a", "t1", "2026-01-10", "19:00", 2, model.ReservationStatusConfirmed)
	env.seedReservation("user-a", "t1", "2026-01-12", "18:00", 2, model.ReservationStatusConfirmed)
	env.seedReservation("user-a", "t2", "2026-01-10", "18:00", 2, model.ReservationStatusCancelled)
	env.seedReservation("user-b", "t2", "2026-01-11", "18:00", 2, model.ReservationStatusConfirmed)

	list, err := svc.ListMine(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("ListMine 失败: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(list))
	}
	want := []string{"2026-01-12 18:00", "2026-01-10 18:00", "2026-01-10 19:00"}
	for i, r := range list {
		if got := r.Date + " " + r.TimeSlot; got != want[i] {
			t.Errorf("第 %d 条期望 %s，实际 %s", i, want[i], got)
		}
		if r.UserID != "user-a" {
			t.Errorf("不应包含他人预订: %s", r.UserID)
		}
	}
}

// ── Delete / Cancel 测试 ──

func TestReservationService_Delete_OwnOnly(t *testing.T) {
	svc, env := setupTestReservationService()
	r := env.seedReservation("user-a", "t1", "2026-01-10", "18:00", 2, model.ReservationStatusConfirmed)
	ctx := context.Background()

	if err := svc.Delete(ctx, "user-b", r.ReservationID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("他人删除应返回 ErrReservationNotFound，实际: %v", err)
	}
	if err := svc.Delete(ctx, "user-a", r.ReservationID); err != nil {
		t.Fatalf("本人删除失败: %v", err)
	}
	if _, ok := env.reservations.reservations[r.ReservationID]; ok {
		t.Error("删除后记录应不存在")
	}
	if err := svc.Delete(ctx, "user-a", r.ReservationID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("重复删除应返回 ErrReservationNotFound，实际: %v", err)
	}
}

func TestReservationService_Cancel_FreesSlot(t *testing.T) {
	svc, env := setupTestReservationService()
	r := env.seedReservation("user-a", "t1", "2026-01-10", "18:00", 2, model.ReservationStatusConfirmed)
	ctx := context.Background()

	if _, err := svc.Cancel(ctx, "user-b", r.ReservationID); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("他人取消应返回 ErrReservationNotFound，实际: %v", err)
	}

	resp, err := svc.Cancel(ctx, "user-a", r.ReservationID)
	if err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	if resp.Status != model.ReservationStatusCancelled {
		t.Errorf("期望 cancelled，实际 %s", resp.Status)
	}

	if _, err := svc.Create(ctx, "user-b", bookingReq("t1", "2026-01-10", "18:00", 2)); err != nil {
		t.Errorf("取消后时段应被释放，实际: %v", err)
	}
}
