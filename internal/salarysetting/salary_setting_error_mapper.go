package salarysetting

import (
	"errors"

	salarysettingerrors "hris-payroll/internal/salarysetting/errors"
	"hris-payroll/internal/shared/dbtx"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarysettingerrors.ErrSalarySettingNotFound
	}
	if dbtx.IsUniqueViolation(err, "uq_salary_setting_effective") {
		return salarysettingerrors.ErrEffectiveDateAlreadyExists
	}
	return err
}
