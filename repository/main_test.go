package repository

import (
	"go-shop-api/logger"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}
