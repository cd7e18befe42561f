package infra

import (
	"fmt"

	"github.com/Shoelmaxi/floreria-web/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used by the
// integration test suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.FormulaRamo{},
		&model.MovimientoInventario{},
		&model.Turno{},
		&model.RamoArmado{},
		&model.Venta{},
		&model.VentaItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate
// cannot express. Each statement is guarded so re-running on an already
// patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One open turno per employee, enforced at the database so a
		// double-submit race cannot produce two.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_turnos_abierto_por_empleado') THEN
		    CREATE UNIQUE INDEX idx_turnos_abierto_por_empleado
		        ON turnos (empleado_id)
		        WHERE estado = 'abierto';
		  END IF;
		END $$`,
		// One active formula entry per (ramo, flor) pair.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_formulas_activa_por_par') THEN
		    CREATE UNIQUE INDEX idx_formulas_activa_por_par
		        ON formulas_ramos (ramo_id, flor_id)
		        WHERE activo;
		  END IF;
		END $$`,
		// Ledger queries are almost always "history of one product, newest first".
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_producto_fecha') THEN
		    CREATE INDEX idx_movimientos_producto_fecha
		        ON movimientos_inventario (producto_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
