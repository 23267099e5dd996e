// internal/database/migrate.go
//
// Table DDL for both schema flavours.  Statements are all IF NOT EXISTS so
// applying them is idempotent; the provisioner runs MigrateTenant on every
// cold pool open, and main() runs MigrateMain once at startup.
package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// mainDDL creates the shared-schema tables: the tenant registry, user
// accounts, the tenant↔user role join, password reset tokens, the
// denormalized cross-tenant blog index, and blog-level header ad settings
// (keyed only by blog id, shared regardless of tenant).
var mainDDL = []string{
	`CREATE TABLE IF NOT EXISTS tenant (
	    id         CHAR(36)    NOT NULL,
	    domain     VARCHAR(50) NOT NULL,
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_tenant_domain (domain)
	)`,
	`CREATE TABLE IF NOT EXISTS user (
	    id            CHAR(36)     NOT NULL,
	    email         VARCHAR(255) NOT NULL,
	    name          VARCHAR(255) NOT NULL DEFAULT '',
	    password_hash VARCHAR(255) NOT NULL,
	    bio           TEXT,
	    created_at    DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    updated_at    DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_user_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS tenant_user (
	    id      CHAR(36)    NOT NULL,
	    tenant  VARCHAR(50) NOT NULL,
	    user_id CHAR(36)    NOT NULL,
	    role    VARCHAR(32) NOT NULL,
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_tenant_user (tenant, user_id),
	    CONSTRAINT fk_tenant_user_user FOREIGN KEY (user_id)
	        REFERENCES user (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS password_reset_token (
	    id         CHAR(36)     NOT NULL,
	    user_id    CHAR(36)     NOT NULL,
	    token      VARCHAR(255) NOT NULL,
	    expires_at DATETIME(6)  NOT NULL,
	    created_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_reset_token (token),
	    CONSTRAINT fk_reset_user FOREIGN KEY (user_id)
	        REFERENCES user (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS global_blog_index (
	    id          CHAR(36)     NOT NULL,
	    blog_id     CHAR(36)     NOT NULL,
	    author_id   CHAR(36)     NOT NULL,
	    tenant      VARCHAR(50)  NOT NULL,
	    title       VARCHAR(255) NOT NULL,
	    cover_photo VARCHAR(512),
	    tags        TEXT,
	    created_at  DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    updated_at  DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_index_blog (blog_id, tenant)
	)`,
	`CREATE TABLE IF NOT EXISTS ad_header_setting (
	    id         CHAR(36)    NOT NULL,
	    blog_id    CHAR(36)    NOT NULL,
	    enabled    TINYINT(1)  NOT NULL DEFAULT 0,
	    html       TEXT,
	    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_header_blog (blog_id)
	)`,
}

// tenantDDL creates one tenant's isolated copy of the per-tenant entities.
var tenantDDL = []string{
	`CREATE TABLE IF NOT EXISTS blog (
	    id          CHAR(36)     NOT NULL,
	    title       VARCHAR(255) NOT NULL,
	    slug        VARCHAR(255) NOT NULL,
	    content     MEDIUMTEXT,
	    cover_photo VARCHAR(512),
	    tags        TEXT,
	    status      VARCHAR(32)  NOT NULL DEFAULT 'drafted',
	    author_id   CHAR(36)     NOT NULL,
	    category_id CHAR(36),
	    created_at  DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    updated_at  DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_blog_slug (slug),
	    KEY ix_blog_status (status),
	    KEY ix_blog_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS blog_page (
	    id         CHAR(36)    NOT NULL,
	    blog_id    CHAR(36)    NOT NULL,
	    position   INT         NOT NULL DEFAULT 0,
	    content    MEDIUMTEXT,
	    created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    KEY ix_page_blog (blog_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS category (
	    id         CHAR(36)     NOT NULL,
	    name       VARCHAR(255) NOT NULL,
	    slug       VARCHAR(255) NOT NULL,
	    created_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_category_slug (slug)
	)`,
	`CREATE TABLE IF NOT EXISTS site_setting (
	    id             CHAR(36)     NOT NULL,
	    logo_light_url VARCHAR(512),
	    logo_dark_url  VARCHAR(512),
	    base_color     VARCHAR(32)  NOT NULL DEFAULT '222 47% 11%',
	    site_title     VARCHAR(255) NOT NULL DEFAULT '',
	    site_meta      TEXT,
	    updated_at     DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS tenant_ad_setting (
	    id         CHAR(36)    NOT NULL,
	    placement  VARCHAR(64) NOT NULL,
	    enabled    TINYINT(1)  NOT NULL DEFAULT 0,
	    html       TEXT,
	    updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
	    PRIMARY KEY (id),
	    UNIQUE KEY uq_ad_placement (placement)
	)`,
}

// MigrateMain applies the shared-schema DDL to the main pool.  The main
// schema also carries its own copy of the per-tenant entities: "main" is a
// tenant too, just one whose content shares a schema with the global tables.
func MigrateMain(ctx context.Context, db *sqlx.DB) error {
	if err := apply(ctx, db, mainDDL); err != nil {
		return err
	}
	return apply(ctx, db, tenantDDL)
}

// MigrateTenant applies the per-tenant DDL to a tenant pool.
func MigrateTenant(ctx context.Context, db *sqlx.DB) error {
	return apply(ctx, db, tenantDDL)
}

func apply(ctx context.Context, db *sqlx.DB, stmts []string) error {
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
