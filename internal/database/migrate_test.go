// Package database provides connection setup for MariaDB and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

// validRoles must match the ENUM values on org_members.role and the role
// literals the application uses. Update this set when adding new roles via
// ALTER TABLE.
// Current ENUM: ENUM('owner', 'admin', 'member', 'collaborator', 'client')
// Defined in 000002.
var validRoles = map[string]bool{
	"owner":        true,
	"admin":        true,
	"member":       true,
	"collaborator": true,
	"client":       true,
}

// migrationsDir returns the absolute path to db/migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "db", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// TestMigrations_RoleValues scans all .up.sql migration files for INSERT or
// UPDATE statements that reference org_members and validates that any role
// values used are valid ENUM members. This prevents the "Data truncated for
// column 'role'" crash (Error 1265) that occurs when an invalid ENUM value
// is used.
func TestMigrations_RoleValues(t *testing.T) {
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files found")
	}

	// Match role = 'value' or role, ... 'value' patterns.
	rolePattern := regexp.MustCompile(`role\s*[=,]\s*'([^']+)'`)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		content := string(data)

		// Only check files that reference the membership table.
		if !strings.Contains(content, "org_members") {
			continue
		}

		// Skip DDL statements (they define the ENUM, not use it). We only
		// care about INSERT/UPDATE statements.
		lines := strings.Split(content, "\n")
		inDDL := false
		for _, line := range lines {
			trimmed := strings.TrimSpace(strings.ToUpper(line))
			if strings.HasPrefix(trimmed, "ALTER TABLE") || strings.HasPrefix(trimmed, "CREATE TABLE") {
				inDDL = true
			}
			if inDDL {
				if strings.Contains(line, ";") {
					inDDL = false
				}
				continue
			}

			matches := rolePattern.FindAllStringSubmatch(line, -1)
			for _, match := range matches {
				value := match[1]
				if !validRoles[value] {
					t.Errorf("%s: invalid role %q; valid values: owner, admin, member, collaborator, client",
						filepath.Base(f), value)
				}
			}
		}
	}
}

// TestMigrations_RoleEnumsAgree ensures every role ENUM declaration across
// the schema stays a subset of the canonical role set, so a role accepted
// by one table is never rejected by another.
func TestMigrations_RoleEnumsAgree(t *testing.T) {
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}

	enumPattern := regexp.MustCompile(`(?i)role\s+ENUM\(([^)]+)\)`)
	valuePattern := regexp.MustCompile(`'([^']+)'`)

	found := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}

		for _, enum := range enumPattern.FindAllStringSubmatch(string(data), -1) {
			found++
			for _, value := range valuePattern.FindAllStringSubmatch(enum[1], -1) {
				if !validRoles[value[1]] {
					t.Errorf("%s: role ENUM value %q is not a known role", filepath.Base(f), value[1])
				}
			}
		}
	}
	if found == 0 {
		t.Fatal("no role ENUM declarations found in migrations")
	}
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}

	for _, up := range upFiles {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}
