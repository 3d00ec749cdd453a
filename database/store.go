// Package database persists the ledger journal and the read models derived
// from it.
package database

import (
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nftmarket/model"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Store is the gorm-backed journal and read model store.
type Store struct {
	DB   *gorm.DB
	book Book
}

// Open connects to the database and migrates the tables. reset drops them
// first.
func Open(driver, dsn string, reset bool) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL, "":
		if !strings.Contains(dsn, "?") {
			dsn += "?charset=utf8mb4&parseTime=True&loc=Local"
		}
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driver)
	}
	if driver == DriverSQLite {
		// sqlite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if reset {
		if err := model.DropTable(db); err != nil {
			return nil, errors.Wrap(err, "drop tables")
		}
	}
	if err := model.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
