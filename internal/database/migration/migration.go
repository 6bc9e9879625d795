package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id             UUID        PRIMARY KEY,
  order_number   TEXT        NOT NULL,
  customer_name  TEXT        NOT NULL,
  stone_type     TEXT        NOT NULL,
  pdf_content    TEXT        NOT NULL,
  extracted_text TEXT        NOT NULL CHECK (extracted_text <> ''),
  upload_date    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_orders_order_number",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders (order_number);`,
	},
	{
		Name: "create_index_orders_customer_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_customer_name ON orders (customer_name);`,
	},
	{
		Name: "create_index_orders_stone_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_stone_type ON orders (stone_type);`,
	},
	{
		Name: "create_index_orders_upload_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_upload_date ON orders (upload_date);`,
	},
}

// EnsureMigrated checks if the 'orders' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()

	logJSON(map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.orders') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
