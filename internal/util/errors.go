package util

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// 核心错误分类，边界层据此映射为稳定的客户端错误码
var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotGradable      = errors.New("response not gradable")
	ErrConflict         = errors.New("conflict")
)

// NotFoundf 附带上下文的 ErrNotFound
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// ValidationErrorf 附带上下文的 ErrValidationFailed
func ValidationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidationFailed)...)
}

// NotGradablef 附带上下文的 ErrNotGradable
func NotGradablef(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotGradable)...)
}

// Conflictf 附带上下文的 ErrConflict
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// TranslateDBError 将存储层错误翻译为核心错误分类。
// 唯一约束冲突依赖 gorm.Config.TranslateError 归一为 ErrDuplicatedKey。
func TranslateDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%v: %w", err, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%v: %w", err, ErrConflict)
	}
	return err
}
