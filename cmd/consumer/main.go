package main

import (
	"hris-payroll/internal/app"
	"hris-payroll/internal/config"
	"hris-payroll/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunConsumer(config.Load()); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
