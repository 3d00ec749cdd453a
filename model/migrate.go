package model

import "gorm.io/gorm"

var Tables = []interface{}{
	&Event{},
	&Listing{},
	&Auction{},
	&Sale{},
	&LoyaltyAccount{},
	&Credit{},
	&Balance{},
	&Deposit{},
	&Cursor{},
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Tables...)
}

func DropTable(db *gorm.DB) error {
	return db.Migrator().DropTable(Tables...)
}
