package database

import (
	"context"
	"database/sql"
	"fmt"
)

const createReservationsSQL = `
CREATE TABLE IF NOT EXISTS reservations (
	id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	code             VARCHAR(16)     NOT NULL,
	user_id          BIGINT UNSIGNED NULL,
	guest_name       VARCHAR(120)    NOT NULL,
	guest_email      VARCHAR(190)    NOT NULL,
	guest_phone      VARCHAR(32)     NOT NULL,
	party_size       INT UNSIGNED    NOT NULL,
	table_type       VARCHAR(32)     NOT NULL,
	res_date         DATE            NOT NULL,
	res_time         VARCHAR(5)      NOT NULL,
	occasion         VARCHAR(64)     NULL,
	notes            TEXT            NULL,
	status           VARCHAR(16)     NOT NULL DEFAULT 'PENDING',
	created_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
	confirmed_at     DATETIME        NULL,
	arrived_at       DATETIME        NULL,
	completed_at     DATETIME        NULL,
	cancelled_at     DATETIME        NULL,
	reminder_sent_at DATETIME        NULL,
	updated_at       DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uq_reservations_code (code),
	KEY idx_reservations_bucket (res_date, res_time, table_type),
	KEY idx_reservations_status (status),
	KEY idx_reservations_user (user_id)
) ENGINE=InnoDB;`

const createSlotInventorySQL = `
CREATE TABLE IF NOT EXISTS slot_inventory (
	res_date       DATE         NOT NULL,
	res_time       VARCHAR(5)   NOT NULL,
	table_type     VARCHAR(32)  NOT NULL,
	total_count    INT UNSIGNED NOT NULL,
	reserved_count INT UNSIGNED NOT NULL DEFAULT 0,
	PRIMARY KEY (res_date, res_time, table_type)
) ENGINE=InnoDB;`

// Migrate applies the schema.  Statements are idempotent so the function is
// safe to run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createReservationsSQL, createSlotInventorySQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
