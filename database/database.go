package database

import (
	"fmt"
	"os"
	"time"

	"github.com/juspay/genius-dashboard-go/sentrylog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	DBConn *gorm.DB
)

// InitDatabase connects the ratings database.  MySQL in production; tests set
// DB_DRIVER=sqlite for an in-memory database.
func InitDatabase() {
	logger := sentrylog.New(sentrylog.Config{
		SlowThreshold:             time.Second,
		IgnoreRecordNotFoundError: true,
		LogLevel:                  gormlogger.Warn,
	})

	var err error

	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "file::memory:?cache=shared"
		}

		DBConn, err = gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger})
	} else {
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&interpolateParams=true",
			os.Getenv("MYSQL_USER"),
			os.Getenv("MYSQL_PASSWORD"),
			os.Getenv("MYSQL_HOST"),
			os.Getenv("MYSQL_PORT"),
			os.Getenv("MYSQL_DBNAME"),
		)

		DBConn, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger})
	}

	if err != nil {
		panic("failed to connect database")
	}
}
