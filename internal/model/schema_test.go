package model

import (
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\);`)

// parseTables extracts column name -> column definition per table from the
// migration SQL.
func parseTables(sql string) map[string]map[string]string {
	tables := make(map[string]map[string]string)
	for _, match := range createTableRe.FindAllStringSubmatch(sql, -1) {
		columns := make(map[string]string)
		for _, line := range strings.Split(match[2], "\n") {
			line = strings.TrimSuffix(strings.TrimSpace(line), ",")
			if line == "" {
				continue
			}
			name := strings.Fields(line)[0]
			switch strings.ToUpper(name) {
			case "PRIMARY", "FOREIGN", "UNIQUE", "CONSTRAINT", "CHECK":
				continue
			}
			columns[name] = line
		}
		tables[match[1]] = columns
	}
	return tables
}

// The repositories run plain GORM CRUD against the goose-migrated schema, so
// every column a model writes must exist in the migration, and every NOT NULL
// column without a default must be backed by a model field. Any drift here
// turns into undefined-column or NOT-NULL errors at runtime.
func TestMigrationMatchesModels(t *testing.T) {
	sqlBytes, err := os.ReadFile("../../migrations/00001_init.sql")
	require.NoError(t, err)

	tables := parseTables(string(sqlBytes))

	models := []interface{}{
		&FamilyModel{},
		&ChildModel{},
		&FamilySettingsModel{},
		&ChoreModel{},
		&AssignmentModel{},
		&BidModel{},
		&CompletionModel{},
		&StreakModel{},
		&WalletModel{},
		&TransactionModel{},
		&StarPurchaseModel{},
	}

	for _, m := range models {
		parsed, err := schema.Parse(m, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		columns, ok := tables[parsed.Table]
		require.True(t, ok, "table %s missing from migration", parsed.Table)

		modelColumns := make(map[string]bool)
		for _, field := range parsed.Fields {
			if field.DBName == "" {
				continue
			}
			assert.Contains(t, columns, field.DBName,
				"%s.%s is written by %s but missing from the migration", parsed.Table, field.DBName, parsed.Name)
			modelColumns[field.DBName] = true
		}

		for name, definition := range columns {
			if strings.Contains(definition, "NOT NULL") && !strings.Contains(definition, "DEFAULT") {
				assert.True(t, modelColumns[name],
					"%s.%s is NOT NULL without a default but %s never populates it", parsed.Table, name, parsed.Name)
			}
		}
	}
}

// Optional uuid references must be nullable pointers: GORM includes
// zero-valued plain strings in INSERTs, and '' is not a valid uuid.
func TestOptionalReferencesAreNullable(t *testing.T) {
	assert.Nil(t, AssignmentModel{}.ChildID)
	assert.Nil(t, CompletionModel{}.ApprovedBy)
	assert.Nil(t, StarPurchaseModel{}.ProcessedBy)
}
