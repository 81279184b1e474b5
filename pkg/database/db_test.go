package database

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OmPrakashMadasi/restaurant-reservation/config"
	"github.com/OmPrakashMadasi/restaurant-reservation/internal/model"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "db_test.db")}
	db, err := NewDB(cfg, "silent", zap.NewNop())
	if err != nil {
		t.Fatalf("连接 SQLite 失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	if err := Migrate(db, "sqlite", zap.NewNop()); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

// 迁移后的 SQLite 结构须允许正常写入用户、餐桌与预订
func TestMigrate_SQLiteAcceptsWrites(t *testing.T) {
	db := newSQLiteDB(t)

	user := &model.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleCustomer}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	table := &model.Table{Name: "T1", Capacity: 2, IsAvailable: true}
	if err := db.Create(table).Error; err != nil {
		t.Fatalf("创建餐桌失败: %v", err)
	}
	r := &model.Reservation{
		UserID:   user.UserID,
		TableID:  table.TableID,
		Date:     time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		TimeSlot: "18:00",
		Guests:   2,
		Status:   model.ReservationStatusConfirmed,
	}
	r.Version = 1
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("创建预订失败: %v", err)
	}

	var got model.Reservation
	if err := db.Preload("User").Preload("Table").First(&got, "reservation_id = ?", r.ReservationID).Error; err != nil {
		t.Fatalf("查询预订失败: %v", err)
	}
	if got.User == nil || got.User.UserID != user.UserID {
		t.Errorf("预订应关联到所属用户: %+v", got.User)
	}
	if got.Table == nil || got.Table.Name != "T1" {
		t.Errorf("预订应关联到餐桌: %+v", got.Table)
	}
}

// 外键只能由预订指向用户与餐桌，不能反向
func TestMigrate_SQLiteNoReverseForeignKeys(t *testing.T) {
	db := newSQLiteDB(t)

	for _, tbl := range []string{"users", "restaurant_tables"} {
		var n int64
		if err := db.Raw("SELECT COUNT(*) FROM pragma_foreign_key_list(?) WHERE \"table\" = 'reservations'", tbl).Scan(&n).Error; err != nil {
			t.Fatalf("读取 %s 外键失败: %v", tbl, err)
		}
		if n != 0 {
			t.Errorf("%s 不应存在指向 reservations 的外键", tbl)
		}
	}
}
