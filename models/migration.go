package models

import (
	"log"

	"bitbucket.org/mmdatafocus/distribution_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &User{},
		&Client{}, &Route{},
		&Product{},
		&Order{}, &OrderDetail{},
		&Invoice{}, &InvoiceItem{},
		&InventoryEntry{}, &InventoryEntryItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
