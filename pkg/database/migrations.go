package database

import (
	"fmt"

	"go-sales-desk/internal/model"

	"gorm.io/gorm"
)

// Models lists every table in migration order
var Models = []interface{}{
	&model.Privilege{},
	&model.Role{},
	&model.User{},
	&model.Customer{},
	&model.Product{},
	&model.Purchase{},
	&model.Sale{},
	&model.SaleItem{},
}

// RunMigrations creates tables, constraints and the stock triggers.
// It is safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	var statements []string
	switch db.Dialector.Name() {
	case DriverSQLite:
		statements = sqliteTriggers
	case DriverPostgres:
		statements = postgresTriggers
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, db.Dialector.Name())
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install stock triggers: %w", err)
		}
	}
	return nil
}

var sqliteTriggers = []string{
	`CREATE TRIGGER IF NOT EXISTS increase_stock_on_purchase
	AFTER INSERT ON purchases
	BEGIN
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + NEW.quantity
		WHERE id = NEW.product_id;
	END`,

	`CREATE TRIGGER IF NOT EXISTS decrease_stock_on_sale
	AFTER INSERT ON sale_items
	BEGIN
		UPDATE products
		SET quantity_in_stock = quantity_in_stock - NEW.quantity
		WHERE id = NEW.product_id;
	END`,
}

var postgresTriggers = []string{
	`CREATE OR REPLACE FUNCTION increase_stock_on_purchase() RETURNS trigger AS $$
	BEGIN
		UPDATE products
		SET quantity_in_stock = quantity_in_stock + NEW.quantity
		WHERE id = NEW.product_id;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS increase_stock_on_purchase ON purchases`,
	`CREATE TRIGGER increase_stock_on_purchase
	AFTER INSERT ON purchases
	FOR EACH ROW EXECUTE FUNCTION increase_stock_on_purchase()`,

	`CREATE OR REPLACE FUNCTION decrease_stock_on_sale() RETURNS trigger AS $$
	BEGIN
		UPDATE products
		SET quantity_in_stock = quantity_in_stock - NEW.quantity
		WHERE id = NEW.product_id;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS decrease_stock_on_sale ON sale_items`,
	`CREATE TRIGGER decrease_stock_on_sale
	AFTER INSERT ON sale_items
	FOR EACH ROW EXECUTE FUNCTION decrease_stock_on_sale()`,
}
