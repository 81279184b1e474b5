package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrUniqueViolation 写入违反唯一索引（同一餐桌同一时段、重名餐桌等）
var ErrUniqueViolation = errors.New("违反唯一约束")

// pgUniqueViolation PostgreSQL unique_violation SQLSTATE
const pgUniqueViolation = "23505"

// IsUniqueViolation 判断存储层错误是否为唯一索引冲突
// 依次识别 GORM 翻译后的错误、pgconn 原始错误与 SQLite 错误文本
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUniqueViolation) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
