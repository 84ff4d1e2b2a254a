package database

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the application needs.  Safe to call on
// each start: all statements use IF NOT EXISTS.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email         VARCHAR(255) NULL,
		phone         VARCHAR(32)  NOT NULL,
		username      VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('athlete','coach','federation') NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		UNIQUE KEY uq_users_phone (phone),
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_hash (token_hash),
		KEY idx_refresh_user (user_id),
		CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS athletes (
		user_id            BIGINT UNSIGNED PRIMARY KEY,
		full_name          VARCHAR(255) NULL,
		date_of_birth      DATE NULL,
		gender             VARCHAR(16) NULL,
		category           VARCHAR(32) NULL,
		club               VARCHAR(255) NULL,
		district           VARCHAR(128) NULL,
		height_cm          DECIMAL(5,1) NULL,
		weight_kg          DECIMAL(5,1) NULL,
		blood_group        VARCHAR(8) NULL,
		medical_conditions TEXT NULL,
		emergency_contact  VARCHAR(255) NULL,
		photo_url          VARCHAR(512) NULL,
		bio                TEXT NULL,
		status             VARCHAR(16) NOT NULL DEFAULT 'Pending',
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_athletes_category (category),
		CONSTRAINT fk_athletes_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS athlete_events (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		athlete_id    BIGINT UNSIGNED NOT NULL,
		event_name    VARCHAR(128) NOT NULL,
		personal_best VARCHAR(64) NULL,
		pb_date       DATE NULL,
		notes         TEXT NULL,
		KEY idx_athlete_events_athlete (athlete_id),
		CONSTRAINT fk_athlete_events_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS achievements (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		athlete_id     BIGINT UNSIGNED NOT NULL,
		event_name     VARCHAR(128) NOT NULL,
		meet_name      VARCHAR(255) NULL,
		place          VARCHAR(32) NULL,
		proof_url      VARCHAR(512) NULL,
		achieved_on    DATE NULL,
		verified       TINYINT(1) NOT NULL DEFAULT 0,
		verified_by    BIGINT UNSIGNED NULL,
		verifier_notes TEXT NULL,
		verified_at    DATETIME NULL,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_achievements_athlete (athlete_id),
		CONSTRAINT fk_achievements_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS performances (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		athlete_id  BIGINT UNSIGNED NOT NULL,
		event_name  VARCHAR(128) NOT NULL,
		result      VARCHAR(64) NOT NULL,
		recorded_at DATETIME NOT NULL,
		KEY idx_performances_athlete (athlete_id, recorded_at),
		CONSTRAINT fk_performances_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS coaches (
		user_id          BIGINT UNSIGNED PRIMARY KEY,
		full_name        VARCHAR(255) NULL,
		gender           VARCHAR(16) NULL,
		specialization   VARCHAR(255) NULL,
		experience_years INT NULL,
		qualifications   TEXT NULL,
		club             VARCHAR(255) NULL,
		district         VARCHAR(128) NULL,
		photo_url        VARCHAR(512) NULL,
		bio              TEXT NULL,
		status           VARCHAR(16) NOT NULL DEFAULT 'Pending',
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_coaches_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS squads (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		coach_id     BIGINT UNSIGNED NOT NULL,
		name         VARCHAR(128) NOT NULL,
		workout_plan TEXT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_squads_coach (coach_id),
		CONSTRAINT fk_squads_coach FOREIGN KEY (coach_id) REFERENCES coaches(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	// coach_id is denormalised from squads so that the one-squad-per-coach
	// rule is a unique key rather than a convention.
	`CREATE TABLE IF NOT EXISTS squad_members (
		coach_id    BIGINT UNSIGNED NOT NULL,
		squad_id    BIGINT UNSIGNED NOT NULL,
		athlete_id  BIGINT UNSIGNED NOT NULL,
		assigned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (coach_id, athlete_id),
		KEY idx_squad_members_squad (squad_id),
		CONSTRAINT fk_squad_members_squad FOREIGN KEY (squad_id) REFERENCES squads(id),
		CONSTRAINT fk_squad_members_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS favorites (
		coach_id   BIGINT UNSIGNED NOT NULL,
		athlete_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (coach_id, athlete_id),
		CONSTRAINT fk_favorites_coach FOREIGN KEY (coach_id) REFERENCES users(id),
		CONSTRAINT fk_favorites_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS coach_notes (
		coach_id   BIGINT UNSIGNED NOT NULL,
		athlete_id BIGINT UNSIGNED NOT NULL,
		note       TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (coach_id, athlete_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS admin_notes (
		admin_id   BIGINT UNSIGNED NOT NULL,
		subject_id BIGINT UNSIGNED NOT NULL,
		note       TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (admin_id, subject_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title       VARCHAR(255) NOT NULL,
		description TEXT NULL,
		event_date  DATE NOT NULL,
		venue       VARCHAR(255) NULL,
		category    VARCHAR(32) NULL,
		created_by  BIGINT UNSIGNED NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_events_date (event_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS event_registrations (
		event_id      BIGINT UNSIGNED NOT NULL,
		athlete_id    BIGINT UNSIGNED NOT NULL,
		registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (event_id, athlete_id),
		CONSTRAINT fk_event_registrations_event FOREIGN KEY (event_id) REFERENCES events(id),
		CONSTRAINT fk_event_registrations_athlete FOREIGN KEY (athlete_id) REFERENCES athletes(user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		title      VARCHAR(255) NOT NULL,
		message    TEXT NOT NULL,
		is_read    TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_notifications_user (user_id, is_read)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
