package app

import (
	"database/sql"

	"hris-payroll/internal/absence"
	"hris-payroll/internal/approval"
	"hris-payroll/internal/attendance"
	"hris-payroll/internal/auth"
	"hris-payroll/internal/config"
	"hris-payroll/internal/credit"
	"hris-payroll/internal/employee"
	"hris-payroll/internal/leave"
	"hris-payroll/internal/messaging/kafka"
	"hris-payroll/internal/notification"
	"hris-payroll/internal/payroll"
	"hris-payroll/internal/payrollsetting"
	"hris-payroll/internal/rbac"
	"hris-payroll/internal/rbac/infra"
	"hris-payroll/internal/salarysetting"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
	hub *notification.Hub,
) error {
	// --- Repositories ---
	absenceRepo := absence.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	creditRepo := credit.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	payrollSettingRepo := payrollsetting.NewRepository(gormDB)
	salarySettingRepo := salarysetting.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)
	machine := approval.NewMachine(rbacService)
	publisher := kafka.NewOutboxPublisher(outboxRepo, cfg.Kafka.NotificationTopic)

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	creditService := credit.NewService(db, creditRepo)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, creditService, machine, publisher)
	absenceService := absence.NewService(db, absenceRepo, employeeRepo, creditService, machine, publisher)
	salarySettingService := salarysetting.NewService(db, salarySettingRepo, employeeRepo)
	payrollSettingService := payrollsetting.NewService(payrollSettingRepo, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, payrollSettingService)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		employeeRepo,
		salarySettingService,
		attendanceService,
		absenceRepo,
		payrollSettingService,
	)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	absenceHandler := absence.NewHandler(absenceService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService, cfg.SecureCookies())
	creditHandler := credit.NewHandler(creditService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService, hub)
	payrollHandler := payroll.NewHandler(payrollService)
	payrollSettingHandler := payrollsetting.NewHandler(payrollSettingService)
	salarySettingHandler := salarysetting.NewHandler(salarySettingService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		absence.RegisterRoutes(api, absenceHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		auth.RegisterRoutes(api, authHandler)
		credit.RegisterRoutes(api, creditHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		payrollsetting.RegisterRoutes(api, payrollSettingHandler, rbacService)
		salarysetting.RegisterRoutes(api, salarySettingHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
